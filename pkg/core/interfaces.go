package core

// Logger interface for renderer progress output
type Logger interface {
	Printf(format string, args ...interface{})
}

// Environment is a distant light looked up by direction alone. Fetch must be defined
// for every unit direction.
type Environment interface {
	Fetch(direction Vec3) Vec3
}

// PixelSink receives the final averaged radiance of each pixel exactly once
type PixelSink interface {
	Write(x, y int, rgb [3]float32)
}
