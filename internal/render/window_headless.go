//go:build !cgo

package render

import "context"

func (w *Window) Run(ctx context.Context) error {
	return ErrNoGraphics
}
