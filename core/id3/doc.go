/*
Package id3 reads and rewrites the ID3v2 tag at the start of MP3 files.

Frames are located by walking declared sizes from offset 10 until an
identifier the tag registry does not know. Every mutation writes a complete
copy of the file in two passes through sibling temporary files: the first
pass splices the frame, the second recomputes the synchsafe header size. The
result is renamed over the original only when both passes succeed.

	ed := id3.NewEditor(id3.Options{Confirm: askUser})
	if _, err := ed.EditFrame("song.mp3", "TIT2", []byte("\x00New title")); err != nil {
	    return err
	}

Frame payloads are written exactly as given. Callers that want an encoding
byte in front of text use EncodeText.
*/
package id3
