// Package raster renders PDF pages to JPEG images and reads document outlines
// using MuPDF through go-fitz.
package raster
