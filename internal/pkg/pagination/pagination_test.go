package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/lumina-backend/internal/platform/apierr"
)

func TestNewClamps(t *testing.T) {
	p := New(0, 500, 12)
	if p.Page != 1 || p.Size != MaxSize {
		t.Fatalf("New: got=%+v", p)
	}
	p = New(3, 0, 12)
	if p.Size != 12 || p.Offset() != 24 {
		t.Fatalf("New default size: got=%+v offset=%d", p, p.Offset())
	}
}

func TestFromQuery(t *testing.T) {
	p, err := FromQuery(url.Values{"page": {"2"}, "page_size": {"5"}}, 12)
	if err != nil {
		t.Fatalf("FromQuery: %v", err)
	}
	if p.Page != 2 || p.Size != 5 {
		t.Fatalf("FromQuery: got=%+v", p)
	}
	if _, err := FromQuery(url.Values{"page": {"abc"}}, 12); err == nil {
		t.Fatalf("expected error for non-numeric page")
	}
}

func TestCheckAndHasNext(t *testing.T) {
	p := New(1, 10, 12)
	if err := p.Check(0); err != nil {
		t.Fatalf("first page of empty list must be valid: %v", err)
	}
	if !p.HasNext(11) || p.HasNext(10) {
		t.Fatalf("HasNext mismatch")
	}

	p = New(3, 10, 12)
	err := p.Check(20)
	ae, ok := apierr.As(err)
	if !ok || ae.Status != 404 || ae.Code != "invalid_page" {
		t.Fatalf("Check: want invalid_page 404, got %v", err)
	}
	if err := New(2, 10, 12).Check(11); err != nil {
		t.Fatalf("page 2 of 11 rows should be valid: %v", err)
	}
}

func TestHugePageRejectedBeforeOffsetOverflows(t *testing.T) {
	for _, raw := range []string{strconv.Itoa(MaxPage + 1), strconv.Itoa(math.MaxInt), "99999999999999999999"} {
		_, err := FromQuery(url.Values{"page": {raw}, "page_size": {"100"}}, 12)
		ae, ok := apierr.As(err)
		require.True(t, ok, raw)
		require.Equal(t, "invalid_page", ae.Code, raw)
	}

	p, err := FromQuery(url.Values{"page": {strconv.Itoa(MaxPage)}, "page_size": {"100"}}, 12)
	require.NoError(t, err)
	require.Positive(t, p.Offset())
	require.Positive(t, p.Offset()+p.Limit())
	require.Error(t, p.Check(1000))

	clamped := New(math.MaxInt, MaxSize, 12)
	require.Equal(t, MaxPage, clamped.Page)
	require.Positive(t, clamped.Offset())
}
