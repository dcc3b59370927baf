package serialize

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath-diamond/graphindex"
)

// edgeListHeader is the literal first line required by spec.md §6.
const edgeListHeader = "source,destination"

// ParseEdgeList reads the "source,destination" text format: a literal
// header line, then one "u,v" pair of unsigned integers per non-empty
// line. Whitespace around the integers is tolerated; trailing blank lines
// are ignored. Duplicate edges are preserved verbatim, matching
// graphindex.Build's multiplicity contract.
func ParseEdgeList(r io.Reader) ([]graphindex.Edge, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, &InputError{Source: "edgelist", Reason: "empty input, expected header line"}
	}
	if strings.TrimSpace(scanner.Text()) != edgeListHeader {
		return nil, &InputError{Source: "edgelist", Reason: "first line must be literal \"" + edgeListHeader + "\""}
	}

	var edges []graphindex.Edge
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, &InputError{Source: "edgelist", Reason: "line missing comma: " + line}
		}
		u, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, &InputError{Source: "edgelist", Reason: "bad source id in: " + line}
		}
		v, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, &InputError{Source: "edgelist", Reason: "bad destination id in: " + line}
		}
		edges = append(edges, graphindex.Edge{From: graphindex.Node(u), To: graphindex.Node(v)})
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputError{Source: "edgelist", Reason: err.Error()}
	}
	return edges, nil
}
