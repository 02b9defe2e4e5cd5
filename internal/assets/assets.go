// Package assets maps catalog image paths onto the images bundled with the
// storefront.
package assets

import "strings"

// DefaultImage is used for empty or unknown image paths.
const DefaultImage = "2.png"

var bundled = map[string]string{
	"2.png": "assets/images/2.png",
	"3.png": "assets/images/3.png",
	"4.png": "assets/images/4.png",
	"5.png": "assets/images/5.png",
}

// Resolve returns the bundled asset for imagePath, keyed by its last path
// segment ("/images/3.png" -> "assets/images/3.png").
func Resolve(imagePath string) string {
	name := imagePath
	if i := strings.LastIndexByte(imagePath, '/'); i >= 0 && i < len(imagePath)-1 {
		name = imagePath[i+1:]
	}
	if a, ok := bundled[name]; ok {
		return a
	}
	return bundled[DefaultImage]
}
