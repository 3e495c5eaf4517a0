package crawler_test

import (
	"testing"

	"github.com/fwojciec/crawler"
	"github.com/stretchr/testify/assert"
)

func TestPage_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()

		err := (&crawler.Page{}).Validate()
		assert.Equal(t, crawler.EINVALID, crawler.ErrorCode(err))
	})

	t.Run("accepts page with URL", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, (&crawler.Page{URL: "https://example.com/"}).Validate())
	})
}
