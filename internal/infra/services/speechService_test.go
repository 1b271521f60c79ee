package services

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"farm-advisor/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeechProvider struct {
	transcript string
	err        error

	calls    int
	language string
	audio    []byte
}

func (f *fakeSpeechProvider) Recognize(_ context.Context, audio []byte, languageCode string) (string, error) {
	f.calls++
	f.language = languageCode
	f.audio = audio
	return f.transcript, f.err
}

// wavBytes builds a minimal 16-bit mono PCM WAV file with silent samples.
func wavBytes(samples int) []byte {
	dataLen := samples * 2
	buf := make([]byte, 44+dataLen)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataLen))
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)
	binary.LittleEndian.PutUint16(buf[22:], 1)
	binary.LittleEndian.PutUint32(buf[24:], 16000)
	binary.LittleEndian.PutUint32(buf[28:], 32000)
	binary.LittleEndian.PutUint16(buf[32:], 2)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataLen))
	return buf
}

func flacBytes() []byte {
	// "fLaC" marker followed by a STREAMINFO block header.
	return append([]byte("fLaC"), 0x80, 0x00, 0x00, 0x22, 0x10, 0x00, 0x10, 0x00)
}

func TestTranscribeSuccess(t *testing.T) {
	fake := &fakeSpeechProvider{transcript: "എന്റെ തക്കാളി ഇലകൾ മഞ്ഞയാകുന്നത് എന്തുകൊണ്ട്?"}
	svc := NewSpeechService(newTestLogger(), fake, "")

	audio := wavBytes(160)
	text, err := svc.Transcribe(context.Background(), audio)
	require.NoError(t, err)

	assert.Equal(t, fake.transcript, text)
	assert.Equal(t, "ml-IN", fake.language)
	assert.Equal(t, audio, fake.audio)
}

func TestTranscribeAcceptsFLAC(t *testing.T) {
	fake := &fakeSpeechProvider{transcript: "hello"}
	svc := NewSpeechService(newTestLogger(), fake, "ml-IN")

	_, err := svc.Transcribe(context.Background(), flacBytes())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestTranscribeMissingAudio(t *testing.T) {
	fake := &fakeSpeechProvider{}
	svc := NewSpeechService(newTestLogger(), fake, "ml-IN")

	_, err := svc.Transcribe(context.Background(), nil)
	assert.ErrorIs(t, err, errs.ErrNoAudio)
	assert.Zero(t, fake.calls)
}

func TestTranscribeUnsupportedContainer(t *testing.T) {
	fake := &fakeSpeechProvider{transcript: "x"}
	svc := NewSpeechService(newTestLogger(), fake, "ml-IN")

	_, err := svc.Transcribe(context.Background(), []byte("this is plain text, not audio"))
	require.Error(t, err)

	var appErr *errs.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.KindClientInput, appErr.Kind)
	assert.Contains(t, appErr.Message, "Unsupported audio format")
	assert.Zero(t, fake.calls)
}

func TestTranscribeUnrecognized(t *testing.T) {
	fake := &fakeSpeechProvider{transcript: ""}
	svc := NewSpeechService(newTestLogger(), fake, "ml-IN")

	_, err := svc.Transcribe(context.Background(), wavBytes(16))
	assert.ErrorIs(t, err, errs.ErrUnrecognizedSpeech)
}

func TestTranscribeBackendFailure(t *testing.T) {
	fake := &fakeSpeechProvider{err: errors.New("recognition connection failed")}
	svc := NewSpeechService(newTestLogger(), fake, "ml-IN")

	_, err := svc.Transcribe(context.Background(), wavBytes(16))
	require.Error(t, err)

	var appErr *errs.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errs.KindUpstream, appErr.Kind)
	assert.Equal(t, "Speech recognition service error: recognition connection failed", appErr.Message)
}
