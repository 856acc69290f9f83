package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"os/exec"

	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// Stream decodes a video through an ffmpeg child process emitting MJPEG on
// its stdout. Seeking backwards restarts the decoder; seeking forwards skips
// frames without decoding them, so seeks are frame accurate.
type Stream struct {
	ctx   context.Context
	path  string
	total int
	pos   int

	cancel  context.CancelFunc
	cmd     *utils.SafeCommand
	out     io.ReadCloser
	scanner *bufio.Scanner
	peeked  []byte
}

// OpenFFmpeg starts decoding path. The first frame is read eagerly so a file
// ffmpeg cannot decode fails here with an OpenError instead of on first read.
func OpenFFmpeg(ctx context.Context, path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &OpenError{Path: path, Err: errors.New("is a directory")}
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	s := &Stream{ctx: ctx, path: path, total: utils.GetTotalFrames(ctx, path)}
	if err := s.start(); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if s.scanner.Scan() {
		s.peeked = append([]byte(nil), s.scanner.Bytes()...)
		return s, nil
	}
	if err := s.finish(); err != nil {
		utils.ShowError("FFmpeg could not decode input", err, s.cmd)
		return nil, &OpenError{Path: path, Err: err}
	}
	// A container with no video frames is valid; Next reports end of stream.
	return s, nil
}

func (s *Stream) start() error {
	ctx, cancel := context.WithCancel(s.ctx)
	cmd := utils.NewFFmpegCmd(ctx, s.path)
	out, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create FFmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start FFmpeg: %w", err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, megabyte), 64*megabyte)
	scanner.Split(utils.SplitJpeg)

	s.cancel, s.cmd, s.out, s.scanner = cancel, cmd, out, scanner
	s.pos = 0
	s.peeked = nil
	return nil
}

// finish waits for a decoder that reached the end of its output.
func (s *Stream) finish() error {
	if err := s.scanner.Err(); err != nil {
		s.stop()
		return err
	}
	err := s.cmd.Wait()
	s.cancel()
	s.cmd = nil
	return err
}

func (s *Stream) stop() {
	if s.cmd == nil {
		return
	}
	s.cancel()
	s.out.Close()
	_ = s.cmd.Wait() // killed by cancel; the exit status is meaningless
	s.cmd = nil
}

// advance moves past one frame and returns its JPEG bytes.
func (s *Stream) advance() ([]byte, error) {
	if s.peeked != nil {
		data := s.peeked
		s.peeked = nil
		s.pos++
		return data, nil
	}
	if s.cmd == nil {
		return nil, ErrEndOfStream
	}
	if !s.scanner.Scan() {
		if err := s.finish(); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", s.path, err)
		}
		return nil, ErrEndOfStream
	}
	s.pos++
	return s.scanner.Bytes(), nil
}

func (s *Stream) Next() (*image.RGBA, error) {
	data, err := s.advance()
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.pos-1, err)
	}
	return ToRGBA(img), nil
}

func (s *Stream) Seek(index int) int {
	index = Clamp(index, s.total)
	if index < s.pos || s.cmd == nil {
		s.stop()
		if err := s.start(); err != nil {
			logrus.WithError(err).WithField("path", s.path).Warn("decoder restart failed")
			return s.pos
		}
	}
	for s.pos < index {
		if _, err := s.advance(); err != nil {
			break
		}
	}
	return s.pos
}

func (s *Stream) FrameCount() int { return s.total }

func (s *Stream) Position() int { return s.pos }

func (s *Stream) Close() error {
	s.stop()
	return nil
}
