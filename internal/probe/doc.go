// Package probe reads the capture time and GPS position already embedded in
// an image, so a write that would change nothing can be skipped. Reading is
// done in-process with goexif; only JPEG and TIFF containers are decoded.
// Any other format reports [ErrNoEmbedded] and callers write unconditionally.
package probe
