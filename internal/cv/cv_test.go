package cv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneIsDeep(t *testing.T) {
	d := Default()
	c := d.Clone()
	c.Experience[0].Role = "changed"
	c.Skills = append(c.Skills, Skill{ID: "x", Name: "x"})
	if d.Experience[0].Role == "changed" {
		t.Fatalf("clone shares experience backing array")
	}
	if len(d.Skills) != 8 {
		t.Fatalf("clone shares skills slice")
	}
}

func TestPatchMergesFields(t *testing.T) {
	d := Default()
	if err := d.Patch([]byte(`{"personalInfo":{"name":"Jane Roe"},"interests":[]}`)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if d.Personal.Name != "Jane Roe" {
		t.Fatalf("name = %q", d.Personal.Name)
	}
	if d.Personal.Title != "Senior Frontend Developer" {
		t.Fatalf("title lost: %q", d.Personal.Title)
	}
	if len(d.Interests) != 0 {
		t.Fatalf("interests not replaced: %v", d.Interests)
	}
	if len(d.Experience) != 2 {
		t.Fatalf("experience touched")
	}
}

func TestPatchReplacesListWholesale(t *testing.T) {
	d := Default()
	if err := d.Patch([]byte(`{"experience":[{"company":"NewCo"}]}`)); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if len(d.Experience) != 1 {
		t.Fatalf("experience = %+v", d.Experience)
	}
	got := d.Experience[0]
	if got.Company != "NewCo" || got.Role != "" || got.Description != "" {
		t.Fatalf("stale fields survived: %+v", got)
	}
	if got.ID == "" || got.ID == "exp1" {
		t.Fatalf("expected fresh id, got %q", got.ID)
	}
}

func TestPatchRejectsDuplicateIDs(t *testing.T) {
	d := Default()
	before := d.Clone()
	err := d.Patch([]byte(`{"personalInfo":{"name":"Jane"},"experience":[{"id":"exp2"},{"id":"exp2"}]}`))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if diff := cmp.Diff(before, d); diff != "" {
		t.Fatalf("rejected patch changed data (-want +got):\n%s", diff)
	}
}

func TestPatchRejectsUnknownFieldAtomically(t *testing.T) {
	d := Default()
	err := d.Patch([]byte(`{"personalInfo":{"name":"Jane"},"hobbies":[]}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	if d.Personal.Name != "Alex Doe" {
		t.Fatalf("failed patch applied partially: %q", d.Personal.Name)
	}
}

func TestListEditing(t *testing.T) {
	d := Default()

	id, err := d.AddItem(ListLanguages, []byte(`{"name":"German","level":"B1"}`))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id == "" || d.Languages[len(d.Languages)-1].ID != id {
		t.Fatalf("id not assigned: %q %+v", id, d.Languages)
	}

	if err := d.UpdateItem(ListLanguages, id, []byte(`{"level":"B2","id":"other"}`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := d.Languages[len(d.Languages)-1]
	if got.Level != "B2" || got.Name != "German" || got.ID != id {
		t.Fatalf("update result %+v", got)
	}

	if _, err := d.AddItem(ListSkills, []byte(`{"id":"skill1","name":"dup"}`)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	if err := d.RemoveItem(ListExperience, "exp1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(d.Experience) != 1 || d.Experience[0].ID != "exp2" {
		t.Fatalf("remove result %+v", d.Experience)
	}
	if err := d.RemoveItem(ListExperience, "exp1"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := d.AddItem(List("hobbies"), []byte(`{}`)); !errors.Is(err, ErrUnknownList) {
		t.Fatalf("expected ErrUnknownList, got %v", err)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEncodePhoto(t *testing.T) {
	raw := pngBytes(t)
	uri, err := EncodePhoto(bytes.NewReader(raw), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %.40s", uri)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil || !bytes.Equal(decoded, raw) {
		t.Fatalf("payload mismatch: %v", err)
	}
}

func TestEncodePhotoRejects(t *testing.T) {
	if _, err := EncodePhoto(strings.NewReader("just some text"), 0); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if _, err := EncodePhoto(bytes.NewReader(pngBytes(t)), 10); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
	if _, err := EncodePhoto(strings.NewReader(""), 0); !errors.Is(err, ErrEmptyPhoto) {
		t.Fatalf("expected ErrEmptyPhoto, got %v", err)
	}
}
