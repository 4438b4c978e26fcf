package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/archdraw/pkg/errors"
	archio "github.com/matzehuels/archdraw/pkg/io"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

// Response headers set by /render.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderCache    = "X-Cache"
	HeaderWarnings = "X-Warnings"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := archio.ReadJSON(http.MaxBytesReader(w, r.Body, s.opts.MaxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set(HeaderRenderID, res.RenderID)
	if res.CacheInfo.ArtifactHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
		h.Set(HeaderWarnings, strconv.Itoa(len(res.Report.Warnings)))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// renderOptions reads format, engine, order and scale from the query.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats: []string{pipeline.FormatSVG},
		Config:  s.opts.Config,
		Engine:  q.Get("engine"),
		Logger:  s.logger,
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if o := q.Get("order"); o != "" {
		opts.Order = strings.Split(o, ",")
	}
	if sc := q.Get("scale"); sc != "" {
		v, err := strconv.ParseFloat(sc, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale: %q is not a number", sc)
		}
		opts.Scale = v
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}
