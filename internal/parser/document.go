package parser

type TextDocument struct {
	NumberOfWords  int    `json:"number_of_words"`
	Subject        string `json:"subject"`
	Summary        string `json:"summary"`
	MostCommonWord string `json:"most_common_word"`
}

const textDocumentSchema = `{
  "title": "TextDocument",
  "type": "object",
  "properties": {
    "number_of_words": {"title": "Number Of Words", "description": "The number of words in the document", "type": "integer"},
    "subject": {"title": "Subject", "description": "The subject of the document", "type": "string"},
    "summary": {"title": "Summary", "description": "A short summary of the document no more than 30 words", "type": "string"},
    "most_common_word": {"title": "Most Common Word", "description": "The most common word in the document excluding stop words", "type": "string"}
  },
  "required": ["number_of_words", "subject", "summary", "most_common_word"]
}`

func TextDocumentParser() (*Parser[TextDocument], error) {
	return New[TextDocument]("text-document", []byte(textDocumentSchema))
}
