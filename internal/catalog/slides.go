package catalog

// SlideWindow selects slide n (wrapping in both directions) and its neighbours
// for the no-JS slider controls. ok is false when there are no slides.
func SlideWindow(slides []Slide, n int) (current, prev, next int, ok bool) {
	count := len(slides)
	if count == 0 {
		return 0, 0, 0, false
	}
	current = ((n % count) + count) % count
	prev = (current - 1 + count) % count
	next = (current + 1) % count
	return current, prev, next, true
}
