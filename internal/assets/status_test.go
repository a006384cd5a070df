package assets_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amink7/assets-manager/internal/assets"
)

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from assets.Status
		to   assets.Status
		want bool
	}{
		{assets.StatusPending, assets.StatusProcessing, true},
		{assets.StatusProcessing, assets.StatusPublished, true},
		{assets.StatusProcessing, assets.StatusFailed, true},
		{assets.StatusPending, assets.StatusPublished, false},
		{assets.StatusPending, assets.StatusFailed, false},
		{assets.StatusProcessing, assets.StatusPending, false},
		{assets.StatusPublished, assets.StatusProcessing, false},
		{assets.StatusPublished, assets.StatusFailed, false},
		{assets.StatusFailed, assets.StatusProcessing, false},
		{assets.StatusFailed, assets.StatusPublished, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status assets.Status
		want   bool
	}{
		{assets.StatusPending, false},
		{assets.StatusProcessing, false},
		{assets.StatusPublished, true},
		{assets.StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal(): got %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAssetLifecycle(t *testing.T) {
	a := assets.NewAsset("report.pdf", "application/pdf")
	if a.Status != assets.StatusPending {
		t.Fatalf("new asset status: got %s, want PENDING", a.Status)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("new asset invalid: %v", err)
	}

	processing, err := a.Processing()
	if err != nil {
		t.Fatalf("Processing: %v", err)
	}
	if processing.ID != a.ID || processing.Filename != a.Filename {
		t.Error("Processing did not keep identity fields")
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	published, err := processing.Published("file:///tmp/x.pdf", 42, at)
	if err != nil {
		t.Fatalf("Published: %v", err)
	}
	if err := published.Validate(); err != nil {
		t.Fatalf("published asset invalid: %v", err)
	}
	if published.PublishedAt.Location() != time.UTC {
		t.Errorf("published_at location: got %s, want UTC", published.PublishedAt.Location())
	}
	if !published.PublishedAt.Equal(at) {
		t.Errorf("published_at: got %s, want %s", published.PublishedAt, at)
	}
	if *published.Size != 42 || *published.Location != "file:///tmp/x.pdf" {
		t.Errorf("publish fields: got %s %d", *published.Location, *published.Size)
	}

	if _, err := published.Failed(); !errors.Is(err, assets.ErrInvalidTransition) {
		t.Errorf("Failed after publish: got %v, want ErrInvalidTransition", err)
	}
	if _, err := a.Published("x", 1, at); !errors.Is(err, assets.ErrInvalidTransition) {
		t.Errorf("Published from PENDING: got %v, want ErrInvalidTransition", err)
	}
}

func TestAssetFailedClearsPublishFields(t *testing.T) {
	a := assets.NewAsset("a.txt", "text/plain")
	processing, _ := a.Processing()

	failed, err := processing.Failed()
	if err != nil {
		t.Fatalf("Failed: %v", err)
	}
	if failed.Location != nil || failed.Size != nil || failed.PublishedAt != nil {
		t.Error("failed asset carries publish fields")
	}
	if err := failed.Validate(); err != nil {
		t.Errorf("failed asset invalid: %v", err)
	}
}

func TestAssetValidate(t *testing.T) {
	loc := "file:///x"
	size := int64(1)
	at := time.Now()

	tests := []struct {
		name  string
		asset assets.Asset
		ok    bool
	}{
		{"pending bare", assets.Asset{Status: assets.StatusPending}, true},
		{"pending with location", assets.Asset{Status: assets.StatusPending, Location: &loc}, false},
		{"published complete", assets.Asset{Status: assets.StatusPublished, Location: &loc, Size: &size, PublishedAt: &at}, true},
		{"published missing size", assets.Asset{Status: assets.StatusPublished, Location: &loc, PublishedAt: &at}, false},
		{"failed with timestamp", assets.Asset{Status: assets.StatusFailed, PublishedAt: &at}, false},
		{"unknown status", assets.Asset{Status: "ARCHIVED"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, assets.ErrInconsistentAsset) {
				t.Errorf("got %v, want ErrInconsistentAsset", err)
			}
		})
	}
}

func TestUploadCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  assets.UploadCommand
		ok   bool
	}{
		{"valid", assets.UploadCommand{Data: []byte("x"), Filename: "a.txt", ContentType: "text/plain"}, true},
		{"missing filename", assets.UploadCommand{Data: []byte("x"), ContentType: "text/plain"}, false},
		{"missing content type", assets.UploadCommand{Data: []byte("x"), Filename: "a.txt"}, false},
		{"empty data", assets.UploadCommand{Filename: "a.txt", ContentType: "text/plain"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, assets.ErrInvalidUpload) {
				t.Errorf("got %v, want ErrInvalidUpload", err)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{assets.ErrNotFound, 404},
		{assets.ErrFileTooLarge, 413},
		{assets.ErrInvalidID, 400},
		{assets.ErrInvalidUpload, 400},
		{assets.ErrInvalidCriteria, 400},
		{assets.ErrInvalidSort, 400},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := assets.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v): got %d, want %d", tt.err, got, tt.want)
		}
	}
}
