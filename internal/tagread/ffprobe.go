package tagread

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/franz/mishmash/internal/util"
)

type probeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type probeInfo struct {
	Streams []probeStream `json:"streams"`
	Format  *probeFormat  `json:"format"`
}

// runFFprobe executes ffprobe and parses the JSON output.
func runFFprobe(path string) (*probeInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, util.ErrNotFound
	}

	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var info probeInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &info, nil
}

// audioProperties pulls duration and bitrate out of the probe, preferring the
// first audio stream and falling back to the container format.
func (info *probeInfo) audioProperties() (timeSecs float64, bitRateKbps int, codec string) {
	for _, stream := range info.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		codec = stream.CodecName
		timeSecs = parseFloat(stream.Duration)
		bitRateKbps = parseInt(stream.BitRate) / 1000
		break
	}

	if info.Format != nil {
		if timeSecs == 0 {
			timeSecs = parseFloat(info.Format.Duration)
		}
		if bitRateKbps == 0 {
			bitRateKbps = parseInt(info.Format.BitRate) / 1000
		}
	}
	return timeSecs, bitRateKbps, codec
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// isLosslessCodec checks if a codec is lossless.
func isLosslessCodec(codec string) bool {
	codec = strings.ToLower(codec)
	if strings.HasPrefix(codec, "pcm_") {
		return true
	}
	switch codec {
	case "flac", "alac", "ape", "wavpack", "wv", "tta", "pcm", "wav", "aiff":
		return true
	}
	return false
}
