package xiph

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/solidcopy/tagcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestOgg creates a one second Vorbis file using ffmpeg.
func createTestOgg(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.ogg")

	cmd := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-c:a", "libvorbis", path)
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}
	return path
}

func TestOgg_Roundtrip(t *testing.T) {
	path := createTestOgg(t, t.TempDir())

	o, err := OpenOgg(path)
	require.NoError(t, err)
	require.NoError(t, o.WriteField(model.FieldTitle, []string{"Title"}))
	require.NoError(t, o.WriteField(model.FieldGenre, []string{"Rock", "Pop"}))
	require.NoError(t, o.WriteField(model.FieldTrackNumber, []string{"2/3"}))
	require.NoError(t, o.SetCustomField("MOOD", "calm"))
	require.NoError(t, o.Save())
	require.NoError(t, o.Close())

	o, err = OpenOgg(path)
	require.NoError(t, err)
	defer o.Close()

	assert.True(t, o.Present())
	values, _ := o.ReadField(model.FieldTitle)
	assert.Equal(t, []string{"Title"}, values)
	values, _ = o.ReadField(model.FieldGenre)
	assert.Equal(t, []string{"Rock", "Pop"}, values)
	values, _ = o.ReadField(model.FieldTrackNumber)
	assert.Equal(t, []string{"2/3"}, values)

	v, ok := o.ReadFreeform([]string{"mood"})
	assert.True(t, ok)
	assert.Equal(t, "calm", v)

	_, hasPictures := any(o).(interface{ Pictures() []model.Picture })
	assert.False(t, hasPictures)
}

func TestOgg_CustomFieldKeysFollowTagLib(t *testing.T) {
	// entries as ReadTags returns them
	o := &Ogg{present: true}
	o.entries = []comment{{name: "MOOD", value: "calm"}, {name: "TITLE", value: "Song"}}

	require.NoError(t, o.SetCustomField("Mood", "angry"))
	assert.Equal(t, map[string][]string{"MOOD": {"angry"}, "TITLE": {"Song"}}, o.properties())
	assert.Equal(t, []model.CustomField{{Key: "MOOD", Value: "angry"}}, o.CustomFields())

	o.RemoveCustomField("Mood")
	o.RemoveCustomField("Mood")
	assert.Equal(t, map[string][]string{"TITLE": {"Song"}}, o.properties())
	assert.Empty(t, o.CustomFields())
}
