package provider

import (
	"bytes"
	"encoding/binary"
)

// AudioChannelCount reads the channel count from a WAV or FLAC header.
// It returns 0 when the header is missing or malformed.
func AudioChannelCount(audio []byte) int {
	switch {
	case len(audio) >= 12 && bytes.Equal(audio[0:4], []byte("RIFF")) && bytes.Equal(audio[8:12], []byte("WAVE")):
		return wavChannels(audio)
	case bytes.HasPrefix(audio, []byte("fLaC")):
		return flacChannels(audio)
	}
	return 0
}

// wavChannels walks the RIFF chunks to the "fmt " chunk; the channel count
// is the little-endian uint16 two bytes into its data.
func wavChannels(audio []byte) int {
	offset := 12
	for offset+8 <= len(audio) {
		id := audio[offset : offset+4]
		size := int(binary.LittleEndian.Uint32(audio[offset+4 : offset+8]))
		data := offset + 8
		if bytes.Equal(id, []byte("fmt ")) {
			if data+4 > len(audio) {
				return 0
			}
			return int(binary.LittleEndian.Uint16(audio[data+2 : data+4]))
		}
		if size < 0 || data+size < data {
			return 0
		}
		// Chunks are word aligned.
		offset = data + size + size%2
	}
	return 0
}

// flacChannels reads STREAMINFO, which must be the first metadata block.
// Channels are stored as (count - 1) in 3 bits at byte 12 of the block.
func flacChannels(audio []byte) int {
	const streamInfo = 4 + 4
	if len(audio) < streamInfo+13 || audio[4]&0x7f != 0 {
		return 0
	}
	return int((audio[streamInfo+12]>>1)&0x07) + 1
}
