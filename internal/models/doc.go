// Package models defines the gallery's data models: media items snapshotted
// from the media store, their recycle-bin records and in-memory undo records.
package models
