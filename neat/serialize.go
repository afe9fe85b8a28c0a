package neat

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// sortedUint64Keys returns a map's keys in ascending order, giving
// Serialize a deterministic, diffable gene ordering.
func sortedUint64Keys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Serialize renders a genome as a human-readable, line-oriented text format:
// one header line, then one line per node gene and one line per connection
// gene, each a space-separated sequence of keyed fields. The format round-
// trips through Deserialize.
func Serialize(g *Genome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "genome id=%d species=%d fitness=%s elite=%t\n",
		g.ID, g.SpeciesID, strconv.FormatFloat(g.Fitness, 'g', -1, 64), g.Elite)

	nodeIDs := sortedUint64Keys(g.Genotype.Nodes)
	for _, id := range nodeIDs {
		n := g.Genotype.Nodes[id]
		fmt.Fprintf(&b, "node id=%d kind=%s activation=%s aggregation=%s bias=%s enabled=%t\n",
			n.ID, n.Kind, n.Activation, n.Aggregation,
			strconv.FormatFloat(n.Bias, 'g', -1, 64), n.Enabled)
	}

	connIDs := sortedUint64Keys(g.Genotype.Connections)
	for _, id := range connIDs {
		c := g.Genotype.Connections[id]
		fmt.Fprintf(&b, "conn id=%d src=%d dst=%d weight=%s enabled=%t\n",
			c.ID, c.Src, c.Dst, strconv.FormatFloat(c.Weight, 'g', -1, 64), c.Enabled)
	}
	return b.String()
}

// Deserialize parses text produced by Serialize back into a Genome. Any
// structurally invalid line raises ErrDeserializeMalformed.
func Deserialize(text string) (*Genome, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	if !scanner.Scan() {
		return nil, newErr(ErrDeserializeMalformed, "empty genome text", nil)
	}

	fields, kind := splitFields(scanner.Text())
	if kind != "genome" {
		return nil, newErr(ErrDeserializeMalformed, "expected genome header line", nil)
	}
	g := &Genome{Genotype: NewGenotype()}
	var err error
	if g.ID, err = parseUintField(fields, "id"); err != nil {
		return nil, err
	}
	if g.SpeciesID, err = parseUintField(fields, "species"); err != nil {
		return nil, err
	}
	if g.Fitness, err = parseFloatField(fields, "fitness"); err != nil {
		return nil, err
	}
	if g.Elite, err = parseBoolField(fields, "elite"); err != nil {
		return nil, err
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, kind := splitFields(line)
		switch kind {
		case "node":
			n, err := parseNodeLine(fields)
			if err != nil {
				return nil, err
			}
			g.Genotype.Nodes[n.ID] = n
		case "conn":
			c, err := parseConnLine(fields)
			if err != nil {
				return nil, err
			}
			g.Genotype.Connections[c.ID] = c
		default:
			return nil, newErr(ErrDeserializeMalformed, fmt.Sprintf("unrecognized line kind %q", kind), nil)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newErr(ErrDeserializeMalformed, "scan genome text", err)
	}
	return g, nil
}

func parseNodeLine(fields map[string]string) (NodeGene, error) {
	var n NodeGene
	var err error
	if n.ID, err = parseUintField(fields, "id"); err != nil {
		return n, err
	}
	kindStr, ok := fields["kind"]
	if !ok {
		return n, newErr(ErrDeserializeMalformed, "node line missing kind", nil)
	}
	switch kindStr {
	case "input":
		n.Kind = NodeInput
	case "hidden":
		n.Kind = NodeHidden
	case "output":
		n.Kind = NodeOutput
	default:
		return n, newErr(ErrDeserializeMalformed, fmt.Sprintf("unknown node kind %q", kindStr), nil)
	}
	actStr, ok := fields["activation"]
	if !ok {
		return n, newErr(ErrDeserializeMalformed, "node line missing activation", nil)
	}
	if n.Activation, err = ParseActivationKind(actStr); err != nil {
		return n, newErr(ErrDeserializeMalformed, "invalid activation kind", err)
	}
	aggStr, ok := fields["aggregation"]
	if !ok {
		return n, newErr(ErrDeserializeMalformed, "node line missing aggregation", nil)
	}
	if n.Aggregation, err = ParseAggregationKind(aggStr); err != nil {
		return n, newErr(ErrDeserializeMalformed, "invalid aggregation kind", err)
	}
	if n.Bias, err = parseFloatField(fields, "bias"); err != nil {
		return n, err
	}
	if n.Enabled, err = parseBoolField(fields, "enabled"); err != nil {
		return n, err
	}
	return n, nil
}

func parseConnLine(fields map[string]string) (ConnectionGene, error) {
	var c ConnectionGene
	var err error
	if c.ID, err = parseUintField(fields, "id"); err != nil {
		return c, err
	}
	if c.Src, err = parseUintField(fields, "src"); err != nil {
		return c, err
	}
	if c.Dst, err = parseUintField(fields, "dst"); err != nil {
		return c, err
	}
	if c.Weight, err = parseFloatField(fields, "weight"); err != nil {
		return c, err
	}
	if c.Enabled, err = parseBoolField(fields, "enabled"); err != nil {
		return c, err
	}
	return c, nil
}

// splitFields splits a "kind key=value key=value ..." line into its leading
// kind token and a key/value map of the remaining fields.
func splitFields(line string) (map[string]string, string) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, ""
	}
	fields := make(map[string]string, len(tokens)-1)
	for _, tok := range tokens[1:] {
		kv := strings.SplitN(tok, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[kv[0]] = kv[1]
	}
	return fields, tokens[0]
}

func parseUintField(fields map[string]string, key string) (uint64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, newErr(ErrDeserializeMalformed, fmt.Sprintf("missing field %q", key), nil)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, newErr(ErrDeserializeMalformed, fmt.Sprintf("invalid uint field %q", key), err)
	}
	return v, nil
}

func parseFloatField(fields map[string]string, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, newErr(ErrDeserializeMalformed, fmt.Sprintf("missing field %q", key), nil)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, newErr(ErrDeserializeMalformed, fmt.Sprintf("invalid float field %q", key), err)
	}
	return v, nil
}

func parseBoolField(fields map[string]string, key string) (bool, error) {
	raw, ok := fields[key]
	if !ok {
		return false, newErr(ErrDeserializeMalformed, fmt.Sprintf("missing field %q", key), nil)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, newErr(ErrDeserializeMalformed, fmt.Sprintf("invalid bool field %q", key), err)
	}
	return v, nil
}
