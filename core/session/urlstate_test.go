package session

import (
	"net/url"
	"testing"
	"time"
)

func TestEncodeDrawer(t *testing.T) {
	t.Run("open drawer", func(t *testing.T) {
		q := EncodeDrawer(DrawerState{IsOpen: true, PostID: "p1", ClassID: "6A"})
		if got := q.Get("drawer"); got != "activity" {
			t.Errorf("drawer = %q, want activity", got)
		}
		if q.Get("postId") != "p1" || q.Get("classId") != "6A" {
			t.Errorf("q = %v", q)
		}
	})

	t.Run("school-wide record omits classId", func(t *testing.T) {
		q := EncodeDrawer(DrawerState{IsOpen: true, PostID: "p1"})
		if _, ok := q["classId"]; ok {
			t.Error("classId present for school-wide record")
		}
	})

	t.Run("closed drawer encodes to nothing", func(t *testing.T) {
		if q := EncodeDrawer(DrawerState{}); len(q) != 0 {
			t.Errorf("q = %v, want empty", q)
		}
	})

	t.Run("display cache never leaks into the URL", func(t *testing.T) {
		q := EncodeDrawer(DrawerState{IsOpen: true, PostID: "p1", Type: "exam", Subtype: "final", Status: "published"})
		if len(q) != 2 {
			t.Errorf("q = %v, want only drawer and postId", q)
		}
	})
}

func TestDecodeDrawer(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   DrawerParams
		wantOK bool
	}{
		{"full", "drawer=activity&postId=p1&classId=6A", DrawerParams{PostID: "p1", ClassID: "6A", Mode: ModeCalendar}, true},
		{"no class", "drawer=activity&postId=p1", DrawerParams{PostID: "p1", Mode: ModeCalendar}, true},
		{"missing postId", "drawer=activity", DrawerParams{}, false},
		{"unknown drawer kind", "drawer=settings&postId=p1", DrawerParams{}, false},
		{"empty query", "", DrawerParams{}, false},
		{"unrelated keys ignored", "drawer=activity&postId=p1&utm_source=mail", DrawerParams{PostID: "p1", Mode: ModeCalendar}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery() failed, %v", err)
			}
			got, ok := DecodeDrawer(q)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DecodeDrawer() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDrawerURLRoundTrip(t *testing.T) {
	st := DrawerState{IsOpen: true, PostID: "p1", ClassID: "6A", Mode: ModeCalendar}
	params, ok := DecodeDrawer(EncodeDrawer(st))
	if !ok {
		t.Fatal("round trip lost the drawer")
	}
	if params.PostID != st.PostID || params.ClassID != st.ClassID {
		t.Errorf("round trip = %+v", params)
	}
}

func TestDaySummaryCodec(t *testing.T) {
	day := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)

	q := EncodeDaySummary(day)
	if q.Get("day") != "2021-03-15" || q.Get("summary") != "1" {
		t.Errorf("q = %v", q)
	}

	got, ok := DecodeDaySummary(q)
	if !ok || !got.Equal(day) {
		t.Errorf("DecodeDaySummary() = %v, %v", got, ok)
	}

	t.Run("day without summary flag is not a summary link", func(t *testing.T) {
		q, _ := url.ParseQuery("day=2021-03-15")
		if _, ok := DecodeDaySummary(q); ok {
			t.Error("decoded without summary=1")
		}
	})

	t.Run("malformed day", func(t *testing.T) {
		q, _ := url.ParseQuery("day=yesterday&summary=1")
		if _, ok := DecodeDaySummary(q); ok {
			t.Error("decoded a malformed day")
		}
	})
}

func TestFocusDateCodec(t *testing.T) {
	day := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)

	got, ok := DecodeFocusDate(EncodeFocusDate(day))
	if !ok || !got.Equal(day) {
		t.Errorf("DecodeFocusDate() = %v, %v", got, ok)
	}

	if _, ok := DecodeFocusDate(url.Values{}); ok {
		t.Error("decoded an absent focus date")
	}
	q, _ := url.ParseQuery("d=not-a-date")
	if _, ok := DecodeFocusDate(q); ok {
		t.Error("decoded a malformed focus date")
	}
}
