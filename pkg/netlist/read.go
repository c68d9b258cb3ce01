package netlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kesslern/mnacore/pkg/element"
)

// TranParams carries the .tran directive's step and stop time, the
// only simulation control this reader understands.
type TranParams struct {
	TStep float64
	TStop float64
}

var valuePattern = regexp.MustCompile(`^([-+]?\d*\.?\d+)(meg|[TGMKkmunp])?$`)

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"M":   1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
}

// ParseValue parses a SPICE-style numeric literal with an optional SI
// suffix, e.g. "2.2k" -> 2200, "100n" -> 1e-7.
func ParseValue(val string) (float64, error) {
	matches := valuePattern.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}
	if matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}
	return num, nil
}

// nodeMapper assigns small consecutive integer ids to node names,
// reserving 0 for ground ("0" or "gnd", case-insensitive).
type nodeMapper struct {
	ids  map[string]int
	next int
}

func newNodeMapper() *nodeMapper {
	return &nodeMapper{ids: make(map[string]int), next: 1}
}

func (m *nodeMapper) resolve(name string) int {
	if name == "0" || strings.EqualFold(name, "gnd") {
		return 0
	}
	if id, ok := m.ids[name]; ok {
		return id
	}
	id := m.next
	m.ids[name] = id
	m.next++
	return id
}

// Read parses the line-oriented netlist format accepted by
// cmd/spicecore: one component per line (R/C/L/V/I/D name p n value...),
// blank lines and lines starting with "*" ignored as comments, and a
// single ".tran tstep tstop" directive providing the simulation
// parameters. ".end" terminates parsing early if present.
func Read(r io.Reader) (*Netlist, TranParams, error) {
	nl := New()
	var tran TranParams
	nodes := newNodeMapper()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		if strings.EqualFold(line, ".end") {
			break
		}
		if strings.HasPrefix(line, ".") {
			fields := strings.Fields(line)
			if strings.EqualFold(fields[0], ".tran") {
				t, err := parseTran(fields)
				if err != nil {
					return nil, tran, fmt.Errorf("line %d: %w", lineNo, err)
				}
				tran = t
			}
			continue
		}

		c, err := parseComponent(line, nodes)
		if err != nil {
			return nil, tran, fmt.Errorf("line %d: %w", lineNo, err)
		}
		nl.Add(c)
	}
	if err := scanner.Err(); err != nil {
		return nil, tran, err
	}

	return nl, tran, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Netlist, TranParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, TranParams{}, err
	}
	defer f.Close()
	return Read(f)
}

func parseTran(fields []string) (TranParams, error) {
	if len(fields) < 3 {
		return TranParams{}, fmt.Errorf("insufficient .tran parameters, need tstep and tstop")
	}
	tstep, err := ParseValue(fields[1])
	if err != nil {
		return TranParams{}, fmt.Errorf("invalid tstep: %w", err)
	}
	tstop, err := ParseValue(fields[2])
	if err != nil {
		return TranParams{}, fmt.Errorf("invalid tstop: %w", err)
	}
	return TranParams{TStep: tstep, TStop: tstop}, nil
}

func parseComponent(line string, nodes *nodeMapper) (element.Component, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid component line: %q", line)
	}

	name := fields[0]
	kind := strings.ToUpper(name[:1])

	switch kind {
	case "R", "C", "L", "V", "I":
		if len(fields) != 4 {
			return nil, fmt.Errorf("%s: expected name, 2 nodes, value", kind)
		}
		p := nodes.resolve(fields[1])
		n := nodes.resolve(fields[2])
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		switch kind {
		case "R":
			return element.NewResistor(name, p, n, value), nil
		case "C":
			return element.NewCapacitor(name, p, n, value, 0), nil
		case "L":
			return element.NewInductor(name, p, n, value, 0), nil
		case "V":
			return element.NewVoltageSource(name, p, n, value), nil
		case "I":
			return element.NewCurrentSource(name, p, n, value), nil
		}
	case "D":
		if len(fields) != 6 {
			return nil, fmt.Errorf("D: expected name, 2 nodes, Is, eta, Vt")
		}
		p := nodes.resolve(fields[1])
		n := nodes.resolve(fields[2])
		is, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s: Is: %w", name, err)
		}
		eta, err := ParseValue(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%s: eta: %w", name, err)
		}
		vt, err := ParseValue(fields[5])
		if err != nil {
			return nil, fmt.Errorf("%s: Vt: %w", name, err)
		}
		return element.NewDiode(name, p, n, is, eta, vt), nil
	}

	return nil, fmt.Errorf("unsupported component kind %q in %q", kind, name)
}
