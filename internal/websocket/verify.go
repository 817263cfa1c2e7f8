package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/repositories"
	"github.com/stegavox/stegavox/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the web client domain is fixed
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WriteData is one outbound websocket frame.
type WriteData struct {
	// Type is the websocket frame type.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// verifySession drives one voice verification attempt over a websocket
// connection: the client opens the attempt with verify_start, streams the
// spoken passphrase as audio chunks, and receives the gate decision once
// the final chunk arrives.
type verifySession struct {
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	gate   *usecase.VoiceGate
	logger *zap.Logger

	expectedText string
	threshold    float64
	sttStreaming repositories.SpeechToTextStreaming
	streamCancel context.CancelFunc
	chunkCount   int

	mutex sync.Mutex
}

// HandleVerify upgrades the connection and runs the verification protocol.
func HandleVerify(c echo.Context, gate *usecase.VoiceGate, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	session := &verifySession{
		conn:   conn,
		send:   make(chan WriteData, 256),
		gate:   gate,
		logger: logger,
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go session.writePump()
	go session.readPump()

	return nil
}

// readPump pumps messages from the websocket connection into the session.
func (s *verifySession) readPump() {
	defer func() {
		s.abandonStream()
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			s.processMessage(message)
		case websocket.BinaryMessage:
			// Binary frames carry raw audio directly
			s.streamChunk(message, false)
		default:
			s.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the session to the websocket connection.
func (s *verifySession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(message.Type, message.Payload); err != nil {
				s.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage dispatches one parsed control message.
func (s *verifySession) processMessage(message []byte) {
	parsed, err := ParseMessage(message)
	if err != nil {
		s.logger.Warn("Invalid message received", zap.Error(err))
		s.reply(CreateErrorMessage("invalid_message", err.Error(), ""))
		return
	}

	switch msg := parsed.(type) {
	case *VerifyStartMessage:
		s.handleVerifyStart(msg)
	case *AudioChunkMessage:
		s.handleAudioChunk(msg)
	case *PingMessage:
		s.reply(CreatePongMessage(msg.Data))
	}
}

// handleVerifyStart opens the recognizer stream for a new attempt.
func (s *verifySession) handleVerifyStart(msg *VerifyStartMessage) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sttStreaming != nil {
		s.reply(CreateErrorMessage("attempt_in_progress", "a verification attempt is already running", ""))
		return
	}

	// The recognizer stream outlives this handler: chunks arrive across
	// many reads, so its context is bound to the attempt and cancelled in
	// finishAttempt or on disconnect, never on return.
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := s.gate.InitStream(ctx, msg.SampleRate, msg.Encoding)
	if err != nil {
		cancel()
		s.logger.Error("Failed to initialize streaming transcription", zap.Error(err))
		s.reply(CreateErrorMessage("stream_init_failed", "failed to initialize transcription", ""))
		return
	}

	s.expectedText = msg.ExpectedText
	s.threshold = msg.Threshold
	s.sttStreaming = stream
	s.streamCancel = cancel
	s.chunkCount = 0

	sampleRate := msg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	encoding := msg.Encoding
	if encoding == "" {
		encoding = "LINEAR16"
	}

	s.logger.Info("Verification attempt started",
		zap.Int("sampleRate", sampleRate),
		zap.String("encoding", encoding))

	s.reply(CreateVerifyStartedMessage(sampleRate, encoding))
}

// handleAudioChunk decodes and forwards one chunk, finishing the attempt
// when the client marks the chunk final.
func (s *verifySession) handleAudioChunk(msg *AudioChunkMessage) {
	var audio []byte
	if msg.AudioData != "" {
		decoded, err := base64.StdEncoding.DecodeString(msg.AudioData)
		if err != nil {
			s.reply(CreateErrorMessage("invalid_audio", "audio_data must be base64 encoded", ""))
			return
		}
		audio = decoded
	}

	s.streamChunk(audio, msg.IsFinal)
}

func (s *verifySession) streamChunk(audio []byte, isFinal bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sttStreaming == nil {
		s.logger.Warn("Received audio chunk but no attempt is running")
		s.reply(CreateErrorMessage("no_attempt", "send verify_start before streaming audio", ""))
		return
	}

	if len(audio) > 0 {
		s.chunkCount++
		if err := s.sttStreaming.Stream(audio); err != nil {
			s.logger.Error("Failed to stream audio data", zap.Error(err))
			s.reply(CreateErrorMessage("stream_failed", "failed to stream audio data", ""))
			s.closeStream()
			return
		}
	}

	if isFinal {
		s.finishAttempt()
	}
}

// finishAttempt closes the recognizer stream and sends the gate decision.
// Callers hold the mutex.
func (s *verifySession) finishAttempt() {
	result, err := s.sttStreaming.End()
	s.closeStream()

	if err != nil {
		s.logger.Error("Failed to end transcription stream", zap.Error(err))
		s.reply(CreateErrorMessage("transcription_failed", "failed to end transcription", ""))
		return
	}

	decision := s.gate.ScoreRecognition(result, s.expectedText, s.threshold)

	s.logger.Info("Verification attempt finished",
		zap.Int("chunks", s.chunkCount),
		zap.Bool("pass", decision.Pass),
		zap.Float64("similarity", decision.Score))

	s.reply(CreateVerificationResultMessage(decision))
}

// reply queues an outbound message, dropping it if the writer stalled.
func (s *verifySession) reply(message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}

	select {
	case s.send <- WriteData{Type: websocket.TextMessage, Payload: payload}:
	default:
		s.logger.Warn("Outbound buffer full, dropping message")
	}
}

// closeStream releases the attempt's recognizer stream and its context.
// Callers hold the mutex.
func (s *verifySession) closeStream() {
	if s.streamCancel != nil {
		s.streamCancel()
		s.streamCancel = nil
	}
	s.sttStreaming = nil
}

// abandonStream drains a half-open recognizer stream on disconnect.
func (s *verifySession) abandonStream() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.sttStreaming != nil {
		if _, err := s.sttStreaming.End(); err != nil {
			s.logger.Warn("Failed to close abandoned transcription stream", zap.Error(err))
		}
	}
	s.closeStream()
}
