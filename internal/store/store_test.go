package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/pipeline"
	"stellaris-techtree/internal/technology"
)

func TestTechnologyBatch(t *testing.T) {
	runID := uuid.MustParse("6f1c2a8e-2d3b-4c5d-9e8f-0a1b2c3d4e5f")
	tier := "2"
	techs := []*technology.Technology{
		{ID: "tech_b", PackageID: "200", Cost: 480, Tier: &tier, Area: technology.Physics, Prerequisites: []string{"tech_a", "tech_x"}},
		{ID: "tech_a", PackageID: "Stellaris", Area: technology.UnknownArea, Prerequisites: []string{}, StartTech: true},
	}

	b := technologyBatch(runID, techs)

	// upsert + delete per technology, one insert per prerequisite.
	require.Equal(t, 6, b.Len())
	q := b.QueuedQueries

	assert.Equal(t, upsertTechnology, q[0].SQL)
	assert.Equal(t, []any{"tech_b", "200", int64(480), &tier, (*string)(nil), (*string)(nil), "physics", false, runID.String()}, q[0].Arguments)
	assert.Equal(t, deletePrerequisites, q[1].SQL)
	assert.Equal(t, []any{"tech_b"}, q[1].Arguments)
	assert.Equal(t, []any{"tech_b", "tech_a", 0}, q[2].Arguments)
	assert.Equal(t, []any{"tech_b", "tech_x", 1}, q[3].Arguments)
	assert.Equal(t, "tech_a", q[4].Arguments[0])
	assert.Equal(t, true, q[4].Arguments[7])
}

func TestTechnologyBatchClampsCost(t *testing.T) {
	b := technologyBatch(uuid.New(), []*technology.Technology{{ID: "tech_huge", Cost: math.MaxUint64}})
	assert.Equal(t, int64(math.MaxInt64), b.QueuedQueries[0].Arguments[2])
}

func TestSortedTechnologies(t *testing.T) {
	byID := map[string]*technology.Technology{
		"c": {ID: "c"}, "a": {ID: "a"}, "b": {ID: "b"},
	}
	techs := sortedTechnologies(byID)
	require.Len(t, techs, 3)
	assert.Equal(t, "a", techs[0].ID)
	assert.Equal(t, "b", techs[1].ID)
	assert.Equal(t, "c", techs[2].ID)
}

func TestLocalisationRows(t *testing.T) {
	name := "Name"
	texts := map[localisation.Language]map[string]localisation.Text{
		localisation.German:  {"b": {Value: "B"}, "a": {Value: "A"}},
		localisation.English: {"z": {Value: "Z", Name: &name}},
		localisation.Unknown: {"k": {Value: "K"}},
	}

	rows := localisationRows(texts)
	require.Len(t, rows, 4)
	assert.Equal(t, localisation.Unknown, rows[0].language)
	assert.Equal(t, "z", rows[1].key)
	assert.Equal(t, "a", rows[2].key)
	assert.Equal(t, "b", rows[3].key)

	runID := uuid.New()
	b := localisationBatch(runID, rows)
	require.Equal(t, 4, b.Len())
	assert.Equal(t, upsertLocalisation, b.QueuedQueries[1].SQL)
	assert.Equal(t, []any{"english", "z", "Z", &name, (*string)(nil), runID.String()}, b.QueuedQueries[1].Arguments)
}

// fakeDB records statements instead of talking to PostgreSQL.
type fakeDB struct {
	execs   []string
	batches []int
	failAt  int
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b.Len())
	return &fakeResults{failAt: f.failAt}
}

type fakeResults struct {
	n      int
	failAt int
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) {
	r.n++
	if r.failAt > 0 && r.n == r.failAt {
		return pgconn.CommandTag{}, errors.New("constraint violated")
	}
	return pgconn.CommandTag{}, nil
}

func (r *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeResults) QueryRow() pgx.Row { return nil }
func (r *fakeResults) Close() error { return nil }

func TestSaveRun(t *testing.T) {
	name := "Lasers"
	result := &pipeline.Result{
		ByID: map[string]*technology.Technology{
			"tech_a": {ID: "tech_a", Area: technology.Physics},
			"tech_b": {ID: "tech_b", Area: technology.Physics, Prerequisites: []string{"tech_a"}},
			"tech_c": {ID: "tech_c", Area: technology.Society},
		},
		Localisation: map[localisation.Language]map[string]localisation.Text{
			localisation.English: {"tech_a": {Value: "Lasers", Name: &name}},
		},
	}

	db := &fakeDB{}
	s := NewStore(db)
	s.batchSize = 2

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.SaveRun(context.Background(), uuid.New(), result))

	// tech_a, tech_b in the first chunk (two upserts, two deletes, one edge), tech_c in the second.
	assert.Equal(t, []int{5, 2, 1}, db.batches)
	assert.Equal(t, []string{schema, insertRun}, db.execs)
}

func TestSaveRunBatchError(t *testing.T) {
	db := &fakeDB{failAt: 2}
	s := NewStore(db)

	result := &pipeline.Result{ByID: map[string]*technology.Technology{
		"tech_a": {ID: "tech_a", Area: technology.Physics},
	}}
	err := s.SaveRun(context.Background(), uuid.New(), result)
	assert.ErrorContains(t, err, "save technologies: constraint violated")
	assert.Empty(t, db.execs, "the run row is written last")
}
