// Package amazonia maps INPE scene metadata for the Amazonia-1 and
// CBERS satellite series into STAC Items and Collections.
//
// The entry points are ParseFile, which reads one scene's metadata XML
// into an immutable SceneMetadata, and BuildItem/BuildCollection, which
// turn parsed metadata and bucket configuration into STAC documents.
package amazonia
