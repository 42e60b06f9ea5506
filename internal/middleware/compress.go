package middleware

import (
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

// gzipWriter starts compressing on the first body write so empty responses
// such as redirects stay empty.
type gzipWriter struct {
	gin.ResponseWriter
	level  int
	writer *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	if g.writer == nil {
		gz, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
		if err != nil {
			return g.ResponseWriter.Write(data)
		}
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Del("Content-Length")
		g.writer = gz
	}
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) close() {
	if g.writer != nil {
		_ = g.writer.Close()
	}
}

// CompressConfig represents compression configuration
type CompressConfig struct {
	Level     int
	Blacklist []string
}

// DefaultCompressConfig returns default compression configuration
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level: gzip.DefaultCompression,
		Blacklist: []string{
			"/health",
		},
	}
}

// Compress adds gzip compression to responses
func Compress(config CompressConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.Blacklist {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz := &gzipWriter{ResponseWriter: c.Writer, level: config.Level}
		c.Writer = gz
		c.Writer.Header().Add("Vary", "Accept-Encoding")
		defer gz.close()

		c.Next()
	}
}
