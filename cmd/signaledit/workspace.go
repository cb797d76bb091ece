package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/overlay"
	"github.com/anggasct/signaledit/pkg/presets"
)

// workspace is a loaded map with its edit set layered on top
type workspace struct {
	Map     *mapmodel.Map
	Presets *presets.Generator
	Overlay *overlay.Overlay

	closers []func()
}

// openWorkspace loads the configured map and edit set. A missing edit set
// starts empty under the configured name.
func (a *app) openWorkspace() (*workspace, error) {
	if a.cfg.Map.Path == "" {
		return nil, errors.New("no map configured: set map.path or pass --map")
	}
	m, err := mapmodel.LoadFromFile(a.cfg.Map.Path)
	if err != nil {
		return nil, err
	}

	edits, err := overlay.LoadNamed(a.cfg.Edits.Dir, m.Name(), a.cfg.Edits.Name)
	switch {
	case err == nil:
		a.logger.Debug("Loaded edit set", slog.String("edits", edits.EditsName))
	case errors.Is(err, os.ErrNotExist):
		edits = overlay.NewMapEdits(m.Name())
		edits.EditsName = a.cfg.Edits.Name
	default:
		return nil, err
	}

	ws := &workspace{
		Map:     m,
		Presets: presets.NewGenerator(m, presets.WithCycleDuration(a.cfg.Editor.CycleDuration())),
	}
	ws.Overlay = overlay.New(ws.Presets, edits, overlay.WithLogger(a.logger))

	if a.cfg.NATS.Enabled {
		nc, err := overlay.ConnectNATS(a.cfg.NATS.URL, appName)
		if err != nil {
			return nil, err
		}
		ws.Overlay.AddObserver(overlay.NewNATSPublisher(nc, a.cfg.NATS.SubjectPrefix, a.logger))
		ws.closers = append(ws.closers, nc.Close)
		a.logger.Info("Publishing plans", slog.String("url", a.cfg.NATS.URL), slog.String("prefix", a.cfg.NATS.SubjectPrefix))
	}
	return ws, nil
}

// Save persists the edit set unless it is still unnamed
func (ws *workspace) Save(dir string) (string, error) {
	path, err := ws.Overlay.Edits().Save(dir)
	if errors.Is(err, overlay.ErrNoEdits) {
		return "", nil
	}
	return path, err
}

func (ws *workspace) Close() {
	for _, c := range ws.closers {
		c()
	}
}

func parseIntersection(s string) (mapmodel.IntersectionID, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid intersection %q", s)
	}
	return mapmodel.IntersectionID(id), nil
}
