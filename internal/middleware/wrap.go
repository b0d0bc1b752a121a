package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter, captures the status code and runs a
// hook right before the first header write.
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wrote       bool
	beforeWrite func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers fn to run once before headers are sent.
func (rw *ResponseRecorder) SetBeforeWrite(fn func(http.ResponseWriter)) { rw.beforeWrite = fn }

func (rw *ResponseRecorder) writeHeaderOnce(statusCode int) {
	if rw.wrote {
		return
	}
	rw.wrote = true
	rw.status = statusCode
	if rw.beforeWrite != nil {
		rw.beforeWrite(rw.ResponseWriter)
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	rw.writeHeaderOnce(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	rw.writeHeaderOnce(http.StatusOK)
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Flush forwards to the underlying writer when supported.
func (rw *ResponseRecorder) Flush() {
	rw.writeHeaderOnce(http.StatusOK)
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *ResponseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *ResponseRecorder) Status() int { return rw.status }
func (rw *ResponseRecorder) Bytes() int  { return rw.bytes }
func (rw *ResponseRecorder) Wrote() bool { return rw.wrote }
