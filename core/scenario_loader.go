package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gridfoundry/capex-compiler/model"
)

// Scenario bundles the loaded inputs of one model run.
type Scenario struct {
	Index    *IndexRegistry
	Params   *ParameterStore
	Topology *Topology
	Options  model.Options

	// SetsLoaded and ParamsLoaded list the csv tables actually found,
	// mainly for logging from main().
	SetsLoaded   []string
	ParamsLoaded []string
}

// standardSets are loaded in this order; sets without a csv file are
// declared empty.
var standardSets = []string{
	SetYear, SetTechnology, SetTransportMode, SetProduct,
	SetRegion, SetLocation, SetEmission, SetMode,
}

// LoadScenario reads a scenario directory following the one-table-per-
// name csv convention: each set and each parameter may have a file
// named after it. Missing files fall back to empty sets and parameter
// defaults. Geography.csv carries the location-to-region membership.
func LoadScenario(dir string, opts model.Options) (*Scenario, error) {
	sc := &Scenario{
		Index:   NewIndexRegistry(),
		Options: opts,
	}

	for _, set := range standardSets {
		ids, found, err := readSetCSV(filepath.Join(dir, set+".csv"))
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", set, err)
		}
		if err := sc.Index.DeclareSet(set, ids); err != nil {
			return nil, err
		}
		if found {
			sc.SetsLoaded = append(sc.SetsLoaded, set)
		}
	}
	// Implicit links need the reserved modes even when the scenario
	// does not list them.
	if err := sc.Index.AppendToSet(SetTransportMode,
		opts.Reserved.OnsiteMode, opts.Reserved.OtherMode, opts.Reserved.InterRegionalMode); err != nil {
		return nil, err
	}

	regionOf, err := readGeographyCSV(filepath.Join(dir, "Geography.csv"))
	if err != nil {
		return nil, err
	}
	if err := sc.Index.BindGeography(regionOf); err != nil {
		return nil, err
	}

	sc.Topology = NewTopology(sc.Index, opts)
	if err := sc.Topology.EnsureHubLocations(); err != nil {
		return nil, err
	}

	sc.Params = NewParameterStore(sc.Index)
	if err := DeclareStandardParams(sc.Params); err != nil {
		return nil, err
	}
	if opts.TransportHub {
		regions, err := sc.Index.Resolve(SetRegion)
		if err != nil {
			return nil, err
		}
		for _, region := range regions {
			hub := sc.Topology.HubLocationName(region)
			if err := sc.Params.Set(ParamHubLocation, 1, hub); err != nil {
				return nil, err
			}
		}
	}

	if err := sc.loadParamCSVs(dir); err != nil {
		return nil, err
	}
	if err := sc.fillTimeSteps(); err != nil {
		return nil, err
	}

	if err := sc.linkExplicitRoutes(); err != nil {
		return nil, err
	}
	if err := sc.Topology.Assemble(); err != nil {
		return nil, err
	}
	if err := sc.Topology.BindRoutes(sc.Params); err != nil {
		return nil, err
	}
	return sc, nil
}

// linkExplicitRoutes registers a topology link for every route the
// scenario opened itself, e.g. pipeline segments. Runs before Assemble,
// so the route table holds only user entries at this point.
func (sc *Scenario) linkExplicitRoutes() error {
	var linkErr error
	err := sc.Params.ForEach(ParamTransportRoute, func(tuple []string, value float64) {
		if linkErr != nil || value != 1 {
			return
		}
		from, to, mode := tuple[0], tuple[1], tuple[3]
		if sc.Topology.RouteExists(from, to, mode) {
			return
		}
		linkErr = sc.Topology.AddLink(from, to, mode)
	})
	if err != nil {
		return err
	}
	return linkErr
}

// loadParamCSVs walks the declared parameter catalog and ingests every
// table present on disk. Row layout is one column per index set in
// declaration order, then the value.
func (sc *Scenario) loadParamCSVs(dir string) error {
	for _, name := range declaredParamNames(sc.Params) {
		path := filepath.Join(dir, name+".csv")
		records, found, err := readCSV(path)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", name, err)
		}
		if !found {
			continue
		}
		sets, err := sc.Params.Sets(name)
		if err != nil {
			return err
		}
		for i, rec := range records {
			if len(rec) != len(sets)+1 {
				return fmt.Errorf("%w: %s row %d has %d fields, want %d",
					ErrSchema, name, i+1, len(rec), len(sets)+1)
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(rec[len(sets)]), 64)
			if err != nil {
				return fmt.Errorf("%w: %s row %d: bad value %q", ErrSchema, name, i+1, rec[len(sets)])
			}
			tuple := make([]string, len(sets))
			for j := range sets {
				tuple[j] = strings.TrimSpace(rec[j])
			}
			if err := sc.Params.Set(name, value, tuple...); err != nil {
				return fmt.Errorf("%s row %d: %w", name, i+1, err)
			}
		}
		sc.ParamsLoaded = append(sc.ParamsLoaded, name)
	}
	return nil
}

// fillTimeSteps derives interval widths from the year axis for years
// the scenario did not set explicitly.
func (sc *Scenario) fillTimeSteps() error {
	plan := NewCapacityPlan(sc.Index, sc.Params)
	for _, y := range sc.Index.Years() {
		current, err := sc.Params.Lookup(ParamTimeStep, yearID(y))
		if err != nil {
			return err
		}
		if current > 0 {
			continue
		}
		step, err := plan.YearStep(y)
		if err != nil {
			return err
		}
		if err := sc.Params.Set(ParamTimeStep, float64(step), yearID(y)); err != nil {
			return err
		}
	}
	return nil
}

// declaredParamNames returns a stable listing of the standard catalog.
func declaredParamNames(s *ParameterStore) []string {
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	// Geography is a table, not a store parameter; everything else in
	// the directory is keyed by its declared name.
	sort.Strings(names)
	return names
}

// readSetCSV reads a one-column table of identifiers, skipping the
// header row. A missing file is not an error.
func readSetCSV(path string) ([]string, bool, error) {
	records, found, err := readCSV(path)
	if err != nil || !found {
		return nil, found, err
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		id := strings.TrimSpace(rec[0])
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}

// readGeographyCSV reads the REGION,LOCATION,VALUE membership table and
// returns the location-to-region mapping of the rows marked 1.
func readGeographyCSV(path string) (map[string]string, error) {
	records, found, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: missing Geography table at %s", ErrSchema, path)
	}
	regionOf := make(map[string]string, len(records))
	for i, rec := range records {
		if len(rec) != 3 {
			return nil, fmt.Errorf("%w: Geography row %d has %d fields, want 3", ErrSchema, i+1, len(rec))
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: Geography row %d: bad value %q", ErrSchema, i+1, rec[2])
		}
		if value != 1 {
			continue
		}
		region, loc := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if prev, dup := regionOf[loc]; dup && prev != region {
			return nil, fmt.Errorf("%w: location %q mapped to both %q and %q", ErrSchema, loc, prev, region)
		}
		regionOf[loc] = region
	}
	return regionOf, nil
}

// readCSV reads all records of a csv file, dropping the header row.
func readCSV(path string) ([][]string, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	var records [][]string
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, true, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		if first {
			first = false
			continue
		}
		records = append(records, rec)
	}
	return records, true, nil
}
