package criteria

import (
	"testing"

	"github.com/hupe1980/esiq/model"
)

func testSystem() *model.SolarSystem {
	return &model.SolarSystem{
		SystemID:       30000142,
		Name:           "Jita",
		SecurityStatus: 0.946,
		Planets: []model.Planet{
			{PlanetID: 1, Moons: []int32{11, 12}},
			{PlanetID: 2, Moons: []int32{13}, AsteroidBelts: []int32{21}},
			{PlanetID: 3},
		},
		Stargates: []int32{51, 52, 53},
		Stations:  []int32{61},
	}
}

func TestCriterionMatches(t *testing.T) {
	tests := []struct {
		name      string
		criterion Criterion
		want      bool
	}{
		{
			name:      "flat count eq",
			criterion: Criterion{Property: "planets", Op: OpEqual, Value: Int(3)},
			want:      true,
		},
		{
			name:      "flat count gt false",
			criterion: Criterion{Property: "stargates", Op: OpGreaterThan, Value: Int(3)},
			want:      false,
		},
		{
			name:      "flat count ge boundary",
			criterion: Criterion{Property: "stargates", Op: OpGreaterEqual, Value: Int(3)},
			want:      true,
		},
		{
			name:      "aggregate moons across planets",
			criterion: Criterion{Property: "moons", Op: OpGreaterEqual, Value: Int(2)},
			want:      true,
		},
		{
			name:      "aggregate moons exact",
			criterion: Criterion{Property: "moons", Op: OpEqual, Value: Int(3)},
			want:      true,
		},
		{
			name:      "aggregate belts",
			criterion: Criterion{Property: "belts", Op: OpEqual, Value: Int(1)},
			want:      true,
		},
		{
			name:      "float scalar lt",
			criterion: Criterion{Property: "security", Op: OpLessThan, Value: Float(1.0)},
			want:      true,
		},
		{
			name:      "int operand promotes against float field",
			criterion: Criterion{Property: "security", Op: OpLessEqual, Value: Int(1)},
			want:      true,
		},
		{
			name:      "string eq case-insensitive",
			criterion: Criterion{Property: "name", Op: OpEqual, Value: String("jita")},
			want:      true,
		},
		{
			name:      "string ne",
			criterion: Criterion{Property: "name", Op: OpNotEqual, Value: String("Amarr")},
			want:      true,
		},
		{
			name:      "ordering op on string field is non-match",
			criterion: Criterion{Property: "name", Op: OpGreaterThan, Value: String("A")},
			want:      false,
		},
		{
			name:      "string operand never coerces against number field",
			criterion: Criterion{Property: "planets", Op: OpEqual, Value: String("3")},
			want:      false,
		},
		{
			name:      "number operand never matches string field",
			criterion: Criterion{Property: "name", Op: OpEqual, Value: Int(0)},
			want:      false,
		},
		{
			name:      "unknown property is non-match",
			criterion: Criterion{Property: "wormholes", Op: OpEqual, Value: Int(0)},
			want:      false,
		},
		{
			name:      "invalid op is non-match",
			criterion: Criterion{Property: "planets", Op: OpInvalid, Value: Int(3)},
			want:      false,
		},
	}

	rec := testSystem()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.criterion.Matches(rec)
			if got != tt.want {
				t.Errorf("Criterion.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateAbsentCollections(t *testing.T) {
	bare := &model.SolarSystem{SystemID: 31000001, Name: "J123456"}

	tests := []struct {
		name      string
		criterion Criterion
		want      bool
	}{
		{"moons zero when no planets", Criterion{Property: "moons", Op: OpEqual, Value: Int(0)}, true},
		{"planets zero", Criterion{Property: "planets", Op: OpEqual, Value: Int(0)}, true},
		{"stations zero", Criterion{Property: "stations", Op: OpLessThan, Value: Int(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.criterion.Matches(bare)
			if got != tt.want {
				t.Errorf("Criterion.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanMatches(t *testing.T) {
	rec := testSystem()

	empty := &Plan{}
	if !empty.Matches(rec) {
		t.Error("empty plan must match every record")
	}

	plan := &Plan{Criteria: []Criterion{
		{Property: "planets", Op: OpGreaterThan, Value: Int(1)},
		{Property: "name", Op: OpEqual, Value: String("Jita")},
	}}
	if !plan.Matches(rec) {
		t.Error("conjunction of true criteria must match")
	}

	plan.Criteria = append(plan.Criteria, Criterion{Property: "moons", Op: OpGreaterThan, Value: Int(10)})
	if plan.Matches(rec) {
		t.Error("one false criterion must fail the conjunction")
	}
}

func TestMatchFirstAndMatchAll(t *testing.T) {
	few := &model.SolarSystem{SystemID: 1, Name: "Poor", Planets: []model.Planet{{PlanetID: 1, Moons: []int32{1}}}}
	rich := testSystem()
	other := &model.SolarSystem{SystemID: 2, Name: "Other", Planets: []model.Planet{{PlanetID: 2, Moons: []int32{1, 2, 3}}}}
	recs := []*model.SolarSystem{few, rich, other}

	plan := &Plan{Criteria: []Criterion{{Property: "moons", Op: OpGreaterEqual, Value: Int(2)}}}

	if got := MatchFirst(recs, plan); got != rich {
		t.Errorf("MatchFirst = %v, want rich", got)
	}

	all := MatchAll(recs, plan)
	if len(all) != 2 || all[0] != rich || all[1] != other {
		t.Errorf("MatchAll must preserve source order, got %v", all)
	}

	none := &Plan{Criteria: []Criterion{{Property: "moons", Op: OpGreaterThan, Value: Int(100)}}}
	if got := MatchFirst(recs, none); got != nil {
		t.Errorf("MatchFirst with no match = %v, want nil", got)
	}
	if got := MatchAll(recs, none); got != nil {
		t.Errorf("MatchAll with no match = %v, want nil", got)
	}
}
