package catalog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffНазвание,Описание,Жанры,Цена,Разработчик,Общая оценка\n" +
	"Space Raiders,open world shooter,shooter,499,Acme,8.1\n" +
	"Farm Sim,peaceful farming,simulation,,GreenCo,\n"

func TestLoader_Load(t *testing.T) {
	items, err := NewLoader(Columns{}, "").Load(strings.NewReader(sampleCSV), "sample")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 0, items[0].ID)
	assert.Equal(t, "Space Raiders", items[0].Name)
	assert.Equal(t, "open world shooter", items[0].Description)
	assert.Equal(t, "shooter", items[0].Genres)
	assert.Equal(t, "499", items[0].Price)
	assert.Equal(t, "Acme", items[0].Developer)
	assert.Equal(t, "8.1", items[0].Rating)

	assert.Equal(t, 1, items[1].ID)
	assert.Empty(t, items[1].Price)
	assert.Empty(t, items[1].Rating)
}

func TestLoader_MissingOptionalColumnsAreEmpty(t *testing.T) {
	data := "Название,Жанры\nSolo,rpg\nShort\n"
	items, err := NewLoader(Columns{}, "").Load(strings.NewReader(data), "sparse")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "rpg", items[0].Genres)
	assert.Empty(t, items[0].Description)
	assert.Empty(t, items[0].Developer)
	assert.Equal(t, "Short", items[1].Name)
	assert.Empty(t, items[1].Genres)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		r    io.Reader
		is   error
	}{
		{name: "missing name column", data: "Описание,Жанры\nx,y\n", is: ErrMissingNameColumn},
		{name: "empty file", data: ""},
		{name: "header only", data: "Название\n"},
		{name: "read failure", r: iotest.ErrReader(errors.New("disk gone"))},
	}
	l := NewLoader(Columns{}, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.r
			if r == nil {
				r = strings.NewReader(tt.data)
			}
			_, err := l.Load(r, "bad.csv")
			require.Error(t, err)
			var dle *DataLoadError
			require.True(t, errors.As(err, &dle))
			assert.Equal(t, "bad.csv", dle.Source)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoader_BareQuotesAreText(t *testing.T) {
	data := "Название,Описание,Жанры\nHalo,The \"best\" shooter,shooter\nFarm,calm,sim\n"
	items, err := NewLoader(Columns{}, "").Load(strings.NewReader(data), "quotes.csv")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `The "best" shooter`, items[0].Description)
	assert.Equal(t, "shooter", items[0].Genres)
	assert.Equal(t, "Farm", items[1].Name)
}

func TestLoader_CustomColumnsAndDelimiter(t *testing.T) {
	data := "title;dev\nHalo;Bungie\n"
	items, err := NewLoader(Columns{Name: "title", Developer: "dev"}, ";").Load(strings.NewReader(data), "custom")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Halo", items[0].Name)
	assert.Equal(t, "Bungie", items[0].Developer)
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	items, err := NewLoader(DefaultColumns(), ",").LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = NewLoader(DefaultColumns(), ",").LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	var dle *DataLoadError
	assert.ErrorAs(t, err, &dle)
}
