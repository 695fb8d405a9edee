package docker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// createdLayout is how docker renders CreatedAt in --format output.
const createdLayout = "2006-01-02 15:04:05 -0700 MST"

type psLine struct {
	ID        string `json:"ID"`
	Names     string `json:"Names"`
	Image     string `json:"Image"`
	State     string `json:"State"`
	Status    string `json:"Status"`
	Ports     string `json:"Ports"`
	CreatedAt string `json:"CreatedAt"`
}

type imagesLine struct {
	ID         string `json:"ID"`
	Repository string `json:"Repository"`
	Tag        string `json:"Tag"`
	Size       string `json:"Size"`
	CreatedAt  string `json:"CreatedAt"`
}

type statsLine struct {
	ID       string `json:"ID"`
	Name     string `json:"Name"`
	CPUPerc  string `json:"CPUPerc"`
	MemPerc  string `json:"MemPerc"`
	MemUsage string `json:"MemUsage"`
	NetIO    string `json:"NetIO"`
	BlockIO  string `json:"BlockIO"`
	PIDs     string `json:"PIDs"`
}

// parseContainers decodes `docker ps --format {{json .}}` output, one object per line.
// Any bad line rejects the whole list.
func parseContainers(out []byte) ([]Container, error) {
	containers := []Container{}
	err := eachLine(out, func(n int, line []byte) error {
		var l psLine
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if l.ID == "" {
			return fmt.Errorf("line %d: missing ID", n)
		}
		containers = append(containers, Container{
			ID:        l.ID,
			Name:      firstName(l.Names),
			Image:     l.Image,
			State:     parseState(l.State, l.Status),
			Status:    l.Status,
			Ports:     l.Ports,
			CreatedAt: parseCreated(l.CreatedAt),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return containers, nil
}

// parseImages decodes `docker images --format {{json .}}` output.
func parseImages(out []byte) ([]Image, error) {
	images := []Image{}
	err := eachLine(out, func(n int, line []byte) error {
		var l imagesLine
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if l.ID == "" {
			return fmt.Errorf("line %d: missing ID", n)
		}
		size, err := humanize.ParseBytes(l.Size)
		if err != nil && l.Size != "" {
			return fmt.Errorf("line %d: size %q: %w", n, l.Size, err)
		}
		images = append(images, Image{
			ID:         l.ID,
			Repository: l.Repository,
			Tag:        l.Tag,
			Size:       size,
			CreatedAt:  parseCreated(l.CreatedAt),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// parseStats decodes `docker stats --no-stream --format {{json .}}` output.
// Containers that are starting up report "--" for every column; those read as zero.
func parseStats(out []byte) ([]Stats, error) {
	stats := []Stats{}
	err := eachLine(out, func(n int, line []byte) error {
		var l statsLine
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if l.ID == "" {
			return fmt.Errorf("line %d: missing ID", n)
		}
		s := Stats{ID: l.ID, Name: l.Name}
		var err error
		if s.CPUPercent, err = parsePercent(l.CPUPerc); err != nil {
			return fmt.Errorf("line %d: CPUPerc: %w", n, err)
		}
		if s.MemPercent, err = parsePercent(l.MemPerc); err != nil {
			return fmt.Errorf("line %d: MemPerc: %w", n, err)
		}
		if s.MemUsed, s.MemLimit, err = parseBytePair(l.MemUsage); err != nil {
			return fmt.Errorf("line %d: MemUsage: %w", n, err)
		}
		if s.NetRx, s.NetTx, err = parseBytePair(l.NetIO); err != nil {
			return fmt.Errorf("line %d: NetIO: %w", n, err)
		}
		if s.BlockRead, s.BlockWrite, err = parseBytePair(l.BlockIO); err != nil {
			return fmt.Errorf("line %d: BlockIO: %w", n, err)
		}
		if p := strings.TrimSpace(l.PIDs); p != "" && p != "--" {
			if s.PIDs, err = strconv.Atoi(p); err != nil {
				return fmt.Errorf("line %d: PIDs: %w", n, err)
			}
		}
		stats = append(stats, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// parsePercent reads "12.34%".
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

// parseBytePair reads "35.2MiB / 7.66GiB".
func parseBytePair(s string) (uint64, uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, 0, nil
	}
	left, right, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not a pair", s)
	}
	a, err := parseSize(left)
	if err != nil {
		return 0, 0, err
	}
	b, err := parseSize(right)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, nil
	}
	return humanize.ParseBytes(s)
}

func eachLine(out []byte, fn func(n int, line []byte) error) error {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseState prefers the State field and falls back to the Status text,
// which older engines emit alone.
func parseState(state, status string) State {
	switch s := State(strings.ToLower(strings.TrimSpace(state))); s {
	case StateCreated, StateRunning, StatePaused, StateRestarting, StateExited, StateDead, StateRemoving:
		return s
	}

	switch {
	case strings.HasPrefix(status, "Up") && strings.Contains(status, "(Paused)"):
		return StatePaused
	case strings.HasPrefix(status, "Up"):
		return StateRunning
	case strings.HasPrefix(status, "Exited"):
		return StateExited
	case strings.HasPrefix(status, "Created"):
		return StateCreated
	case strings.HasPrefix(status, "Restarting"):
		return StateRestarting
	case strings.HasPrefix(status, "Dead"):
		return StateDead
	case strings.HasPrefix(status, "Removal"):
		return StateRemoving
	}
	return StateUnknown
}

// parseCreated returns the zero time for values docker didn't format as expected.
func parseCreated(s string) time.Time {
	t, err := time.Parse(createdLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstName(names string) string {
	if i := strings.IndexByte(names, ','); i >= 0 {
		return names[:i]
	}
	return names
}
