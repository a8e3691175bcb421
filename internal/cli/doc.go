// Package cli implements the gallerybin command line: one-shot cobra
// commands for browsing the gallery and managing the recycle bin, and an
// interactive shell that keeps the undo stack alive between commands.
package cli
