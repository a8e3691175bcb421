// Package config loads gallerybin settings.
//
// Sources are applied in order, later ones winning:
//
//  1. built-in defaults (XDG data and pictures directories)
//  2. a JSON file (--config flag or GALLERYBIN_CONFIG)
//  3. environment variables GALLERYBIN_*, optionally seeded from a .env file
//  4. command-line flags
//
// The bin retention window and the display delay are fixed and cannot be
// configured.
package config
