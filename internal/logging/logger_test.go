package logging

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	g := NewWithT(t)
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		g.Expect(err).NotTo(HaveOccurred(), tt.in)
		g.Expect(got).To(Equal(tt.want), tt.in)
	}

	_, err := ParseLevel("loud")
	g.Expect(err).To(HaveOccurred())
}

func TestNewFiltersByLevel(t *testing.T) {
	g := NewWithT(t)
	var buf bytes.Buffer
	logger, err := New("warn", &buf)
	g.Expect(err).NotTo(HaveOccurred())

	logger.Info().Msg("quiet")
	logger.Warn().Int("alive", 3).Msg("loud")

	out := buf.String()
	g.Expect(out).NotTo(ContainSubstring("quiet"))
	g.Expect(out).To(ContainSubstring("loud"))
	g.Expect(out).To(ContainSubstring("app="))
	g.Expect(out).To(ContainSubstring(App))
	g.Expect(strings.Count(out, "\n")).To(Equal(1))
}
