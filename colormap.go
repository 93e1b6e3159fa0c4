package neurotoy

// Diverging activation color map. Three stops: blue at -1, dark gray at 0,
// red at +1. Values outside the stops clamp to the endpoint colors. The two
// halves are independent lerps blended with a 0/1 step so the GPU version
// stays free of divergent branches; this file mirrors activation_color in
// shaders/neuron.wgsl.

const (
	colorMapMinStop float32 = -1.0
	colorMapMidStop float32 = 0.0
	colorMapMaxStop float32 = 1.0
)

var (
	colorMapMin = [3]float32{0.1, 0.2, 1.0}  // blue, hyperpolarized
	colorMapMid = [3]float32{0.2, 0.2, 0.2}  // dark gray, resting
	colorMapMax = [3]float32{1.0, 0.15, 0.1} // red, near threshold / spiking
)

// ActivationColor maps a membrane potential to an opaque RGBA color.
func ActivationColor(v float32) [4]float32 {
	tNeg := clamp01((v - colorMapMinStop) / (colorMapMidStop - colorMapMinStop))
	tPos := clamp01((v - colorMapMidStop) / (colorMapMaxStop - colorMapMidStop))

	neg := lerp3(colorMapMin, colorMapMid, tNeg)
	pos := lerp3(colorMapMid, colorMapMax, tPos)

	// step(0, v): 1 for v >= 0, 0 otherwise. Both halves agree at v == 0.
	rgb := lerp3(neg, pos, step(0, v))
	return [4]float32{rgb[0], rgb[1], rgb[2], 1.0}
}

func clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func step(edge, v float32) float32 {
	if v < edge {
		return 0
	}
	return 1
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
