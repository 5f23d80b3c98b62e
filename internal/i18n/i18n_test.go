package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tryon/internal/domain"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, "ko", Match("ko-KR,ko;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", Match("en-GB"))
	assert.Equal(t, "ko", Match("", "ko"))
	assert.Equal(t, "", Match(""))
	assert.Equal(t, "", Match("de-DE"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ko", Normalize("KO"))
	assert.Equal(t, "en", Normalize("fr"))
	assert.Equal(t, "en", Normalize(""))
}

func TestFailureMessages(t *testing.T) {
	rejected := domain.Failure{Kind: domain.KindContentRejected, Message: "not a person image"}
	assert.Equal(t, "The image does not show the expected subject: not a person image.", Failure("en", rejected))
	assert.Equal(t, "이미지가 요청한 대상이 아닙니다: not a person image.", Failure("ko", rejected))

	exhausted := domain.Failure{Kind: domain.KindRetryExhausted, Attempts: 3}
	assert.Equal(t, "Image generation failed after 3 attempts.", Failure("en", exhausted))
	assert.Equal(t, "3번 시도했지만 이미지 생성에 실패했습니다.", Failure("ko", exhausted))

	assert.Equal(t, "The model did not return an image.", Failure("de", domain.Failure{Kind: domain.KindNoImage}))
}

func TestEveryKindHasTranslation(t *testing.T) {
	kinds := []domain.FailureKind{
		domain.KindNotFound, domain.KindValidation, domain.KindInvalidImage, domain.KindContentRejected,
		domain.KindNoImage, domain.KindTransport, domain.KindRetryExhausted, domain.KindCanceled,
	}
	for _, kind := range kinds {
		_, ok := translations[string(kind)]
		assert.True(t, ok, "missing translation for %s", kind)
	}
}

func TestSprintfUploadMissing(t *testing.T) {
	assert.Equal(t, "Missing upload field person_image.", Sprintf("en", KeyUploadMissing, "person_image"))
}
