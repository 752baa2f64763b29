package utils

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"

	"medshift/config"
)

// Cloudinary initializes the Cloudinary client for the evidence store from
// the CLOUDINARY_URL configuration value.
func Cloudinary() (*cloudinary.Cloudinary, error) {
	url := config.AppConfig.CloudinaryURL
	if url == "" {
		return nil, fmt.Errorf("cloudinary: CLOUDINARY_URL is not configured")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: failed to initialize client: %w", err)
	}
	return cld, nil
}
