package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"tryon/internal/domain"
)

// Message keys that are not failure kinds.
const (
	KeyUploadInvalid = "upload_invalid"
	KeyUploadMissing = "upload_missing"
	KeyRateLimited   = "rate_limited"
	KeyInternal      = "internal"
)

// Supported lists the locales with a catalog, default first.
var Supported = []language.Tag{language.English, language.Korean}

var (
	matcher  = language.NewMatcher(Supported)
	messages = buildCatalog()
)

var translations = map[string][2]string{
	string(domain.KindNotFound):        {"The image file could not be found.", "이미지 파일을 찾을 수 없습니다."},
	string(domain.KindValidation):      {"The image could not be analyzed.", "이미지를 분석할 수 없습니다."},
	string(domain.KindInvalidImage):    {"The file is not a readable image.", "읽을 수 있는 이미지 파일이 아닙니다."},
	string(domain.KindContentRejected): {"The image does not show the expected subject: %s.", "이미지가 요청한 대상이 아닙니다: %s."},
	string(domain.KindNoImage):         {"The model did not return an image.", "모델이 이미지를 생성하지 않았습니다."},
	string(domain.KindTransport):       {"The AI service is unavailable. Please try again later.", "AI 서비스에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."},
	string(domain.KindRetryExhausted):  {"Image generation failed after %d attempts.", "%d번 시도했지만 이미지 생성에 실패했습니다."},
	string(domain.KindCanceled):        {"The request was canceled.", "요청이 취소되었습니다."},
	KeyUploadInvalid:                   {"The upload could not be read.", "업로드한 파일을 읽을 수 없습니다."},
	KeyUploadMissing:                   {"Missing upload field %s.", "업로드 필드 %s이(가) 없습니다."},
	KeyRateLimited:                     {"Too many requests. Please slow down.", "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."},
	KeyInternal:                        {"Something went wrong.", "알 수 없는 오류가 발생했습니다."},
}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, texts := range translations {
		_ = b.SetString(language.English, key, texts[0])
		_ = b.SetString(language.Korean, key, texts[1])
	}
	return b
}

// Match picks the closest supported locale for a list of language ranges
// such as an Accept-Language header. It returns "" when nothing matches.
func Match(ranges ...string) string {
	var cleaned []string
	for _, r := range ranges {
		if strings.TrimSpace(r) != "" {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	_, idx, confidence := matcher.Match(parseAll(cleaned)...)
	if confidence == language.No {
		return ""
	}
	return baseOf(Supported[idx])
}

// Normalize maps an arbitrary locale string to a supported one, falling back
// to English.
func Normalize(locale string) string {
	if m := Match(locale); m != "" {
		return m
	}
	return baseOf(language.English)
}

// Sprintf renders key in locale.
func Sprintf(locale, key string, args ...any) string {
	tag := language.Make(Normalize(locale))
	return message.NewPrinter(tag, message.Catalog(messages)).Sprintf(key, args...)
}

// Failure renders a user-facing message for f.
func Failure(locale string, f domain.Failure) string {
	switch f.Kind {
	case domain.KindContentRejected:
		return Sprintf(locale, string(f.Kind), f.Message)
	case domain.KindRetryExhausted:
		return Sprintf(locale, string(f.Kind), max(f.Attempts, 1))
	default:
		return Sprintf(locale, string(f.Kind))
	}
}

func parseAll(ranges []string) []language.Tag {
	var tags []language.Tag
	for _, r := range ranges {
		parsed, _, err := language.ParseAcceptLanguage(r)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	return tags
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
