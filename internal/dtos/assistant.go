package dtos

type ChatMessageDto struct {
	Content string `json:"content"`
}

func (dto *ChatMessageDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.Content == "" {
		errs["content"] = "must be provided"
	}

	return len(errs) == 0, errs
}

type SuggestTimeDto struct {
	Task string `json:"task"`
}

func (dto *SuggestTimeDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.Task == "" {
		errs["task"] = "must be provided"
	}

	return len(errs) == 0, errs
}

type DescribeDto struct {
	Title string `json:"title"`
}

func (dto *DescribeDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.Title == "" {
		errs["title"] = "must be provided"
	}

	return len(errs) == 0, errs
}

type ExtractDto struct {
	Prompt string `json:"prompt"`
}

func (dto *ExtractDto) Validate() (bool, map[string]string) {
	errs := make(map[string]string)

	if dto.Prompt == "" {
		errs["prompt"] = "must be provided"
	}

	return len(errs) == 0, errs
}

// ExtractedEventDto is the schema-constrained shape the assistant returns for
// event extraction.
type ExtractedEventDto struct {
	IsCreationRequest bool   `json:"isCreationRequest"`
	Title             string `json:"title,omitempty"`
	StartISO          string `json:"startIso,omitempty"`
	EndISO            string `json:"endIso,omitempty"`
}
