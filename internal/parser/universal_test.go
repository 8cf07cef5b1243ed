package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// ----------------------------------------------------------------------------
// ParseFile Dispatch Tests
// ----------------------------------------------------------------------------

func TestParseFile_DispatchesByContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     analytics.Platform
	}{
		{
			name: "twitter csv",
			content: "Date,Post id,Post text,Post link,Impressions\n" +
				`"Wed, Jul 23, 2025",1,"hi",https://x.com/1,100` + "\n",
			filename: "account_overview.csv",
			want:     analytics.PlatformTwitter,
		},
		{
			name:     "google analytics csv",
			content:  gaExport,
			filename: "data-export.csv",
			want:     analytics.PlatformGoogleAnalytics,
		},
		{
			name:     "linkedin-style csv falls back to generic",
			content:  "Date,Impressions (organic),Engagement rate (organic)\n2025-07-23,100,2.5\n",
			filename: "linkedin_content.csv",
			want:     analytics.PlatformLinkedIn,
		},
		{
			name:     "undetected csv falls back to generic",
			content:  "Date,Widgets\n2025-07-23,5\n",
			filename: "export.csv",
			want:     analytics.PlatformLinkedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseFile([]byte(tt.content), tt.filename)
			if !res.Success {
				t.Fatalf("ParseFile failed: %s", res.Error)
			}
			if res.Data.Source != tt.want {
				t.Errorf("source = %q, want %q", res.Data.Source, tt.want)
			}
		})
	}
}

func TestParseFile_WorkbookExtension(t *testing.T) {
	data := buildWorkbook(t, []sheetData{
		{
			name: "New followers",
			rows: [][]string{
				{"Date", "Total followers"},
				{"7/23/2025", "12"},
			},
		},
	})

	res := ParseFile(data, "linkedin_followers.xlsx")
	if !res.Success {
		t.Fatalf("ParseFile failed: %s", res.Error)
	}
	if res.Data.SubType != analytics.SubTypeFollowers {
		t.Errorf("subType = %q, want followers", res.Data.SubType)
	}
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	res := ParseFile([]byte("hello"), "report.pdf")
	if res.Success {
		t.Fatal("want failure for unsupported extension")
	}
	if !strings.Contains(res.Error, "FILE001") {
		t.Errorf("error = %q, want FILE001 code", res.Error)
	}
}

func TestParseFile_CorruptWorkbookDoesNotPanic(t *testing.T) {
	res := ParseFile([]byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "broken.xlsx")
	if res.Success {
		t.Fatal("want failure for corrupt workbook")
	}
	if res.Data != nil {
		t.Error("failed result carries data")
	}
}

func TestParseFile_CorruptLegacyWorkbookDoesNotPanic(t *testing.T) {
	res := ParseFile([]byte{0xD0, 0xCF, 0x11, 0xE0, 0x00}, "broken.xls")
	if res.Success {
		t.Fatal("want failure for corrupt legacy workbook")
	}
	if res.Data != nil {
		t.Error("failed result carries data")
	}
}

// ----------------------------------------------------------------------------
// Text Decoding Tests
// ----------------------------------------------------------------------------

func TestDecodeText(t *testing.T) {
	t.Run("strips utf8 bom", func(t *testing.T) {
		got := decodeText([]byte("\xEF\xBB\xBFDate,Impressions"))
		if got != "Date,Impressions" {
			t.Errorf("decodeText = %q", got)
		}
	})

	t.Run("passes valid utf8 through", func(t *testing.T) {
		in := "Date,Réactions"
		if got := decodeText([]byte(in)); got != in {
			t.Errorf("decodeText = %q, want %q", got, in)
		}
	})

	t.Run("recovers windows-1252 bytes", func(t *testing.T) {
		// "Réactions" encoded as Windows-1252: é is 0xE9.
		in := []byte("R\xE9actions")
		got := decodeText(in)
		if got != "Réactions" {
			t.Errorf("decodeText = %q, want %q", got, "Réactions")
		}
	})
}

// ----------------------------------------------------------------------------
// UserMessage Tests
// ----------------------------------------------------------------------------

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unsupported file type",
			err:  ErrUnsupportedFileType,
			want: "This file type is not supported. Upload a CSV, XLS or XLSX export (Code: FILE001)",
		},
		{
			name: "empty result",
			err:  ErrEmptyResult,
			want: "No usable rows were found in this file (Code: DATA001)",
		},
		{
			name: "structure error",
			err:  &StructureError{Detail: "no header row"},
			want: "The file layout was not recognized. Export it again from the platform and retry (Code: DATA003)",
		},
		{
			name: "short unknown error passes through",
			err:  errors.New("something odd happened"),
			want: "something odd happened",
		},
		{
			name: "long unknown error falls back",
			err:  errors.New(strings.Repeat("x", 200)),
			want: "Could not parse this file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
