package testdb

import "time"

type options struct {
	image   string
	timeout time.Duration
}

type OptionsFunc func(o *options)

// WithImage overrides the container image.
func WithImage(image string) OptionsFunc {
	return func(o *options) { o.image = image }
}

// WithTimeout bounds container startup and the readiness wait.
func WithTimeout(d time.Duration) OptionsFunc {
	return func(o *options) { o.timeout = d }
}
