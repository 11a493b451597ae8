// Package mediatypes classifies files by previewability.
//
// Classification is driven only by the file name: the lower-cased extension
// is mapped to a content type, first through the media table in this package
// and then through the platform MIME table. Files are never opened.
//
//	kind := mediatypes.Classify("videos/clip.mp4") // mediatypes.KindVideo
//
//	switch kind {
//	case mediatypes.KindImage:
//	    // shown directly
//	case mediatypes.KindVideo:
//	    // needs a generated still frame
//	default:
//	    // generic placeholder
//	}
//
// Classify is total: unknown or extension-less names yield KindOther.
package mediatypes
