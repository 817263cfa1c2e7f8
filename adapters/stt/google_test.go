package stt_test

import (
	"github.com/stegavox/stegavox/adapters/stt"
	"github.com/stegavox/stegavox/domain/repositories"
)

var _ repositories.SpeechToText = &stt.GoogleSpeechToText{}
var _ repositories.SpeechToText = &stt.MockSpeechToText{}
