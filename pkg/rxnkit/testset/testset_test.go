package testset

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/molecule"
)

func waterDoc(id string, charge int) string {
	return `{"molecule_id": "` + id + `",
		"molecule": {"charge": ` + strconv.Itoa(charge) + `, "sites": [
			{"species": [{"element": "O"}], "xyz": [0, 0, 0]},
			{"species": [{"element": "H"}], "xyz": [0.96, 0, 0]},
			{"species": [{"element": "H"}], "xyz": [-0.24, 0.93, 0]}]},
		"electronic_energy": -2000,
		"spin_multiplicity": 1,
		"nbo_charges": [1, 2, 3],
		"alpha_electrons": 5,
		"beta_electrons": 5}`
}

func hfDoc(id string) string {
	return `{"molecule_id": "` + id + `",
		"molecule": {"charge": 0, "sites": [
			{"species": [{"element": "F"}], "xyz": [0, 0, 0]},
			{"species": [{"element": "H"}], "xyz": [0.92, 0, 0]}]},
		"electronic_energy": -2700,
		"spin_multiplicity": 1}`
}

func database() string {
	return "[" + strings.Join([]string{waterDoc("w0", 0), hfDoc("hf"), waterDoc("w1", 1)}, ",") + "]"
}

func TestReadIDsSkipsBlankLines(t *testing.T) {
	ids, err := ReadIDs(strings.NewReader("w0\n\n  hf  \n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"w0", "hf"}, ids)
}

func TestStripKeepsOrder(t *testing.T) {
	doc := gjson.Parse(`{"z": 1, "nbo": {"x": 1}, "a": [1, 2], "spin_alpha": 3, "betax": 4, "m": "s"}`)
	assert.JSONEq(t, `{"z": 1, "a": [1, 2], "m": "s"}`, string(Strip(doc, DefaultStrip)))
	assert.Equal(t, `{"z":1,"a":[1, 2],"m":"s"}`, string(Strip(doc, DefaultStrip)))
	assert.Equal(t, `{}`, string(Strip(gjson.Parse(`{"nbo": 1}`), DefaultStrip)))
}

func TestSelectAddsIsomorphicVariants(t *testing.T) {
	docs, err := molecule.ParseDocs([]byte(database()))
	require.NoError(t, err)

	g := NewGenerator(nil)
	selected, err := g.Select(context.Background(), []string{"w0"}, docs)
	require.NoError(t, err)

	var ids []string
	for _, d := range selected {
		ids = append(ids, d.Get("molecule_id").String())
	}
	assert.Equal(t, []string{"w0", "w1"}, ids, "charge variant included, database order kept")
}

func TestSelectHonoursContext(t *testing.T) {
	docs, err := molecule.ParseDocs([]byte(database()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Generator{}).Select(ctx, []string{"w0"}, docs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	idsPath := filepath.Join(dir, "ids.txt")
	dbPath := filepath.Join(dir, "db.json")
	outPath := filepath.Join(dir, "testset.json")
	require.NoError(t, os.WriteFile(idsPath, []byte("w0\n\nghost\n"), 0o644))
	require.NoError(t, os.WriteFile(dbPath, []byte(database()), 0o644))

	core, logs := observer.New(zapcore.InfoLevel)
	g := NewGenerator(logging.NewLoggerFromCore(core))

	rep, err := g.Generate(context.Background(), idsPath, dbPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Requested)
	assert.Equal(t, 2, rep.Written)
	assert.Equal(t, []string{"ghost"}, rep.Missing)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(out))
	written := gjson.ParseBytes(out).Array()
	require.Len(t, written, 2)
	for _, d := range written {
		assert.False(t, d.Get("nbo_charges").Exists())
		assert.False(t, d.Get("alpha_electrons").Exists())
		assert.False(t, d.Get("beta_electrons").Exists())
		assert.True(t, d.Get("electronic_energy").Exists())
	}

	assert.Equal(t, 1, logs.FilterMessage("molecule id not in database").Len())
	notCopied := logs.FilterMessage("entry not copied").All()
	require.Len(t, notCopied, 1)
	assert.Equal(t, "ghost", notCopied[0].ContextMap()["id"])
}

func TestGenerateMissingInputs(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(nil)
	_, err := g.Generate(context.Background(), filepath.Join(dir, "ids.txt"), filepath.Join(dir, "db.json"), filepath.Join(dir, "out.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
