package service

import (
	"fmt"
	"strings"

	"github.com/BigDee2008/FAQForge/models"

	"github.com/microcosm-cc/bluemonday"
)

// faqTitle is the heading rendered above every FAQ section
const faqTitle = "Frequently Asked Questions"

// textPolicy strips markup from model output and escapes what remains
var textPolicy = bluemonday.StrictPolicy()

// RenderFaq turns question/answer pairs into embeddable markup and styles.
// It is pure: identical input yields byte-identical output. Unknown styles
// fall back to the accordion layout.
func RenderFaq(questions []models.FaqQuestion, style models.FaqStyle) (htmlCode string, cssCode string) {
	if style == models.FaqStyleSimple {
		return renderSimpleHTML(questions), simpleCSS
	}
	return renderAccordionHTML(questions), accordionCSS
}

func sanitizeText(s string) string {
	return textPolicy.Sanitize(s)
}

func renderAccordionHTML(questions []models.FaqQuestion) string {
	var b strings.Builder

	b.WriteString("<div class=\"faq-section\">\n")
	b.WriteString("  <h2 class=\"faq-title\">" + faqTitle + "</h2>\n")
	b.WriteString("  <div class=\"faq-container\">\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "    <div class=\"faq-item\">\n")
		fmt.Fprintf(&b, "      <button class=\"faq-question\" type=\"button\" onclick=\"toggleFaq(%d)\">\n", i)
		fmt.Fprintf(&b, "        <span>%s</span>\n", sanitizeText(q.Question))
		b.WriteString("        <svg class=\"faq-icon\" viewBox=\"0 0 24 24\" fill=\"none\" stroke=\"currentColor\">\n")
		b.WriteString("          <path stroke-linecap=\"round\" stroke-linejoin=\"round\" stroke-width=\"2\" d=\"M19 9l-7 7-7-7\"/>\n")
		b.WriteString("        </svg>\n")
		b.WriteString("      </button>\n")
		fmt.Fprintf(&b, "      <div class=\"faq-answer\" id=\"faq-%d\">\n", i)
		fmt.Fprintf(&b, "        <p>%s</p>\n", sanitizeText(q.Answer))
		b.WriteString("      </div>\n")
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")
	b.WriteString("</div>\n\n")
	b.WriteString(accordionScript)

	return b.String()
}

func renderSimpleHTML(questions []models.FaqQuestion) string {
	var b strings.Builder

	b.WriteString("<div class=\"faq-section\">\n")
	b.WriteString("  <h2 class=\"faq-title\">" + faqTitle + "</h2>\n")
	b.WriteString("  <div class=\"faq-list\">\n")
	for _, q := range questions {
		b.WriteString("    <div class=\"faq-item\">\n")
		fmt.Fprintf(&b, "      <h3 class=\"faq-question\">%s</h3>\n", sanitizeText(q.Question))
		fmt.Fprintf(&b, "      <p class=\"faq-answer\">%s</p>\n", sanitizeText(q.Answer))
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")
	b.WriteString("</div>")

	return b.String()
}

// accordionScript keeps at most one answer open at a time
const accordionScript = `<script>
function toggleFaq(index) {
  var answer = document.getElementById('faq-' + index);
  var icon = answer.previousElementSibling.querySelector('.faq-icon');
  var wasOpen = answer.classList.contains('active');

  document.querySelectorAll('.faq-answer.active').forEach(function (el) {
    el.classList.remove('active');
  });
  document.querySelectorAll('.faq-icon').forEach(function (el) {
    el.style.transform = 'rotate(0deg)';
  });

  if (!wasOpen) {
    answer.classList.add('active');
    icon.style.transform = 'rotate(180deg)';
  }
}
</script>`

const baseCSS = `.faq-section {
  max-width: 800px;
  margin: 0 auto;
  padding: 2rem;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif;
}

.faq-title {
  font-size: 2rem;
  font-weight: 700;
  text-align: center;
  margin-bottom: 2rem;
  color: #1f2937;
}
`

const accordionCSS = baseCSS + `
.faq-container {
  display: flex;
  flex-direction: column;
  gap: 1rem;
}

.faq-item {
  border: 1px solid #e5e7eb;
  border-radius: 0.5rem;
  overflow: hidden;
}

.faq-question {
  width: 100%;
  padding: 1.25rem;
  background: #ffffff;
  border: none;
  text-align: left;
  font-size: 1.1rem;
  font-weight: 600;
  color: #1f2937;
  cursor: pointer;
  display: flex;
  justify-content: space-between;
  align-items: center;
  transition: background-color 0.2s;
}

.faq-question:hover {
  background-color: #f9fafb;
}

.faq-icon {
  width: 1.25rem;
  height: 1.25rem;
  flex-shrink: 0;
  margin-left: 1rem;
  transition: transform 0.2s ease;
}

.faq-answer {
  max-height: 0;
  overflow: hidden;
  background-color: #f9fafb;
  transition: max-height 0.3s ease, padding 0.3s ease;
}

.faq-answer.active {
  max-height: 500px;
  padding: 1.25rem;
}

.faq-answer p {
  margin: 0;
  color: #4b5563;
  line-height: 1.6;
}

@media (max-width: 768px) {
  .faq-section {
    padding: 1rem;
  }

  .faq-title {
    font-size: 1.5rem;
  }

  .faq-question {
    padding: 1rem;
    font-size: 1rem;
  }

  .faq-answer.active {
    padding: 1rem;
  }
}`

const simpleCSS = baseCSS + `
.faq-list {
  display: flex;
  flex-direction: column;
  gap: 2rem;
}

.faq-item {
  padding-bottom: 2rem;
  border-bottom: 1px solid #e5e7eb;
}

.faq-item:last-child {
  border-bottom: none;
  padding-bottom: 0;
}

.faq-question {
  font-size: 1.25rem;
  font-weight: 600;
  color: #1f2937;
  margin: 0 0 1rem 0;
}

.faq-answer {
  color: #4b5563;
  line-height: 1.6;
  margin: 0;
}

@media (max-width: 768px) {
  .faq-section {
    padding: 1rem;
  }

  .faq-title {
    font-size: 1.5rem;
  }

  .faq-question {
    font-size: 1.1rem;
  }
}`
