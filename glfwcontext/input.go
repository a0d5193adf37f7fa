package glfwcontext

// wheelLineHeight converts GLFW scroll steps to DOM-style pixel deltas.
const wheelLineHeight = 100.0

// WheelDelta maps a GLFW vertical scroll offset to a wheel deltaY. GLFW
// reports scrolling up as positive; deltaY is negative for the same motion.
func WheelDelta(yoff float64) float64 {
	return -yoff * wheelLineHeight
}

// ScaleCursor converts a cursor position from window coordinates to
// framebuffer pixels, origin top-left.
func ScaleCursor(x, y float64, fbWidth, fbHeight, winWidth, winHeight int) (float64, float64) {
	scaleX, scaleY := 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	return x * scaleX, y * scaleY
}
