package loader

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// Archive entry names
const (
	EntryProject      = "project.json"
	EntryFloorPlans   = "floorPlans.json"
	EntryAccessPoints = "accessPoints.json"
	EntryRadios       = "simulatedRadios.json"
)

type archiveProject struct {
	Project struct {
		Name              string `json:"name"`
		Customer          string `json:"customer"`
		Location          string `json:"location"`
		ResponsiblePerson string `json:"responsiblePerson"`
	} `json:"project"`
}

type archiveFloorPlans struct {
	FloorPlans []struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		MetersPerUnit float64 `json:"metersPerUnit"`
		FloorNumber   int     `json:"floorNumber"`
	} `json:"floorPlans"`
}

type archiveAccessPoints struct {
	AccessPoints []archiveAccessPoint `json:"accessPoints"`
}

type archiveAccessPoint struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Vendor         string  `json:"vendor"`
	Model          string  `json:"model"`
	Color          string  `json:"color"`
	Enabled        *bool   `json:"enabled"` // Absent means enabled
	MountingHeight float64 `json:"mountingHeight"`
	Azimuth        float64 `json:"azimuth"`
	Tilt           float64 `json:"tilt"`
	Location       *struct {
		FloorPlanID string `json:"floorPlanId"`
		Coord       struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		} `json:"coord"`
	} `json:"location"`
	Tags []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"tags"`
}

type archiveRadios struct {
	SimulatedRadios []struct {
		AccessPointID string  `json:"accessPointId"`
		FrequencyBand string  `json:"frequencyBand"`
		Channel       []int   `json:"channel"`
		ChannelWidth  int     `json:"channelWidth"`
		TransmitPower float64 `json:"transmitPower"`
	} `json:"simulatedRadios"`
}

// archiveBands maps archive band identifiers to model bands
var archiveBands = map[string]models.FrequencyBand{
	"TWO":  models.Band24GHz,
	"FIVE": models.Band5GHz,
	"SIX":  models.Band6GHz,
}

func (l *FileLoader) loadArchive(p, label string) (*models.Snapshot, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	snap, orphans, err := readArchive(&zr.Reader, label)
	if err != nil {
		return nil, err
	}
	if orphans > 0 {
		l.logger.Warn("dropped radios referencing unknown access points",
			"path", p, "count", orphans)
	}
	return snap, nil
}

// ReadArchive builds a snapshot from a survey archive held in r.
func ReadArchive(r io.ReaderAt, size int64, label string) (*models.Snapshot, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	snap, _, err := readArchive(zr, label)
	return snap, err
}

// readArchive returns the snapshot and the number of radios that referenced
// no known access point.
func readArchive(zr *zip.Reader, label string) (*models.Snapshot, int, error) {
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[path.Base(f.Name)] = f
	}

	snap := &models.Snapshot{
		Label:        label,
		Floors:       make(map[string]*models.Floor),
		AccessPoints: make([]*models.AccessPoint, 0),
	}

	var project archiveProject
	if err := decodeEntry(entries, EntryProject, &project, true); err != nil {
		return nil, 0, err
	}
	snap.Metadata = models.ProjectMetadata{
		Name:              project.Project.Name,
		Customer:          project.Project.Customer,
		Location:          project.Project.Location,
		ResponsiblePerson: project.Project.ResponsiblePerson,
	}

	var floors archiveFloorPlans
	if err := decodeEntry(entries, EntryFloorPlans, &floors, true); err != nil {
		return nil, 0, err
	}
	for _, fp := range floors.FloorPlans {
		snap.Floors[fp.ID] = &models.Floor{
			ID:            fp.ID,
			Name:          fp.Name,
			MetersPerUnit: fp.MetersPerUnit,
			FloorNumber:   fp.FloorNumber,
		}
	}

	var aps archiveAccessPoints
	if err := decodeEntry(entries, EntryAccessPoints, &aps, false); err != nil {
		return nil, 0, err
	}
	byID := make(map[string]*models.AccessPoint, len(aps.AccessPoints))
	for _, a := range aps.AccessPoints {
		ap := convertAccessPoint(a)
		snap.AccessPoints = append(snap.AccessPoints, ap)
		byID[ap.ID] = ap
	}

	var radios archiveRadios
	if err := decodeEntry(entries, EntryRadios, &radios, true); err != nil {
		return nil, 0, err
	}
	orphans := 0
	for _, r := range radios.SimulatedRadios {
		ap, ok := byID[r.AccessPointID]
		if !ok {
			orphans++
			continue
		}
		band, ok := archiveBands[r.FrequencyBand]
		if !ok {
			band = models.FrequencyBand(r.FrequencyBand)
		}
		radio := &models.Radio{
			AccessPointID: r.AccessPointID,
			FrequencyBand: band,
			ChannelWidth:  r.ChannelWidth,
			TxPower:       r.TransmitPower,
		}
		if len(r.Channel) > 0 {
			radio.Channel = r.Channel[0]
		}
		ap.Radios = append(ap.Radios, radio)
	}

	if err := normalize(snap); err != nil {
		return nil, 0, err
	}
	return snap, orphans, nil
}

func convertAccessPoint(a archiveAccessPoint) *models.AccessPoint {
	ap := &models.AccessPoint{
		ID:             a.ID,
		Name:           a.Name,
		Vendor:         a.Vendor,
		Model:          a.Model,
		Color:          a.Color,
		Enabled:        a.Enabled == nil || *a.Enabled,
		MountingHeight: a.MountingHeight,
		Azimuth:        a.Azimuth,
		Tilt:           a.Tilt,
	}
	if a.Location != nil {
		ap.FloorID = a.Location.FloorPlanID
		ap.LocationX = a.Location.Coord.X
		ap.LocationY = a.Location.Coord.Y
	}
	if len(a.Tags) > 0 {
		ap.Tags = make(map[string]string, len(a.Tags))
		for _, t := range a.Tags {
			ap.Tags[t.Key] = t.Value
		}
	}
	return ap
}

// decodeEntry decodes a JSON archive entry into v. Missing optional entries
// leave v untouched.
func decodeEntry(entries map[string]*zip.File, name string, v interface{}, optional bool) error {
	f, ok := entries[name]
	if !ok {
		if optional {
			return nil
		}
		return fmt.Errorf("archive entry %s: %w", name, fs.ErrNotExist)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", name, err)
	}
	defer rc.Close()

	if err := json.NewDecoder(rc).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode archive entry %s: %w", name, err)
	}
	return nil
}
