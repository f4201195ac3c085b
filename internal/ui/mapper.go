package ui

// cellMapper maps recording time onto terminal cells for the timeline
// row. The session hit-tests through it, so resizing the terminal only
// needs to update the width here.
type cellMapper struct {
	offsetX  float64
	cells    float64
	duration float64
}

func (m *cellMapper) TimeToPixel(t float64) float64 {
	if m.duration <= 0 {
		return m.offsetX
	}
	return m.offsetX + t/m.duration*m.cells
}

func (m *cellMapper) PixelToTime(x float64) float64 {
	if m.cells <= 0 {
		return 0
	}
	t := (x - m.offsetX) / m.cells * m.duration
	if t < 0 {
		return 0
	}
	if t > m.duration {
		return m.duration
	}
	return t
}
