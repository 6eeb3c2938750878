// Package formats provides codecs for terrain height data.
package formats

// Note: HFD (Height Field Data) is implemented in hfd.go
// Note: grayscale heightmap images are decoded in heightmap.go
