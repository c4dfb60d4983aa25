package host

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/geometry"
	pkgio "github.com/matzehuels/flowtower/pkg/io"
	"github.com/matzehuels/flowtower/pkg/render/export"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// State describes a hosted instance.
type State struct {
	ID         string           `json:"id"`
	Transform  camera.Transform `json:"transform"`
	Fullscreen bool             `json:"fullscreen"`
	Mode       string           `json:"mode"`
	Nodes      int              `json:"nodes"`
	Edges      int              `json:"edges"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Options    workflow.Options `json:"options"`
}

func stateOf(sess *session) State {
	nodes, edges := sess.inst.Counts()
	size := sess.surface.Size()
	return State{
		ID:         sess.inst.ID(),
		Transform:  sess.inst.Transform(),
		Fullscreen: sess.inst.Fullscreen(),
		Mode:       sess.inst.Mode().String(),
		Nodes:      nodes,
		Edges:      edges,
		Width:      size.W,
		Height:     size.H,
		Options:    sess.inst.Options(),
	}
}

// mutate runs fn under the session lock, pushes the new scene to live
// clients and responds with the resulting state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*session) error) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.pushScene()
	writeJSON(w, http.StatusOK, stateOf(sess))
}

func (s *Server) command(op func(*diagram.Instance)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mutate(w, r, func(sess *session) error {
			op(sess.inst)
			return nil
		})
	}
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": s.IDs()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := sizeFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.Create(doc, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.session(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	st := stateOf(sess)
	sess.mu.Unlock()
	w.Header().Set("Location", "/diagrams/"+id)
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	st := stateOf(sess)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDispose(w http.ResponseWriter, r *http.Request) {
	if err := s.Dispose(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	opts := sess.inst.Options()
	doc := &pkgio.Document{Data: sess.inst.Data(), Options: &opts}
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := pkgio.Write(doc, w); err != nil {
		s.logger.Warn("write document", "err", err)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session) error {
		if doc.Options != nil {
			if err := sess.inst.UpdateOptions(*doc.Options); err != nil {
				return err
			}
		}
		sess.inst.Update(doc.Data)
		return nil
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := workflow.DefaultOptions()
	if err := decodeBody(r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(sess *session) error {
		return sess.inst.UpdateOptions(opts)
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleNodeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "node status"))
		return
	}
	node := chi.URLParam(r, "node")
	s.mutate(w, r, func(sess *session) error {
		if !sess.inst.HasNode(node) {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", node)
		}
		sess.inst.UpdateNodeStatus(node, status)
		return nil
	})
}

func (s *Server) handleNodePosition(w http.ResponseWriter, r *http.Request) {
	var pos geometry.Point
	if err := decodeBody(r, &pos); err != nil {
		s.writeError(w, r, err)
		return
	}
	node := chi.URLParam(r, "node")
	s.mutate(w, r, func(sess *session) error {
		if !sess.inst.HasNode(node) {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s not found", node)
		}
		sess.inst.UpdateNodePosition(node, pos)
		return nil
	})
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width < 0 || req.Height < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative"))
		return
	}
	s.mutate(w, r, func(sess *session) error {
		sess.inst.Resize(geometry.Size{W: req.Width, H: req.Height})
		return nil
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.mu.Lock()
	svg := sess.surface.Bytes()
	sess.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// The snapshot is taken under the lock; rasterizing is not.
	sess.mu.Lock()
	ch := sess.inst.ExportImage()
	sess.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			s.writeError(w, r, res.Err)
			return
		}
		contentType := "image/png"
		if res.Format == export.FormatSVG {
			contentType = "image/svg+xml"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Export-Backend", res.Backend)
		w.Header().Set("X-Export-Cached", strconv.FormatBool(res.Cached))
		_, _ = w.Write(res.Bytes)
	case <-r.Context().Done():
	}
}

// readDocument decodes the request body as YAML when the content type says
// so and as JSON otherwise.
func readDocument(r *http.Request) (*pkgio.Document, error) {
	format := pkgio.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			format = pkgio.FormatYAML
		}
	}
	doc, err := pkgio.Read(r.Body, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read document")
	}
	return doc, nil
}

func sizeFromQuery(r *http.Request) (geometry.Size, error) {
	var size geometry.Size
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"width", &size.W}, {"height", &size.H}} {
		v := r.URL.Query().Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return geometry.Size{}, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", f.name, v)
		}
		*f.dst = n
	}
	return size, nil
}
