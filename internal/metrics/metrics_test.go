package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMealMutation(t *testing.T) {
	before := testutil.ToFloat64(mealMutations.WithLabelValues("add_ingredient", "ok"))
	RecordMealMutation("add_ingredient", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(mealMutations.WithLabelValues("add_ingredient", "ok")))
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "/api/v1/meals/:id", 404, 15*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/meals/:id", "404")))
}

func TestRecordCacheLookup(t *testing.T) {
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	assert.Equal(t, float64(1), testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}
