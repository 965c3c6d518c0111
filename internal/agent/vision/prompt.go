package vision

// ExtractionSystemPrompt instructs the model to pull event fields out of an
// image and answer with bare JSON. Unknown fields must stay empty; the
// downstream router treats empty strings as missing and asks the user.
const ExtractionSystemPrompt = `You are an AI assistant tasked with extracting event information from an image.

Return **only a valid JSON object** containing:

- title (e.g., "Music Night")
- date (format: YYYY-MM-DD, assume the current year if the year is missing)
- start_time (format: HH:MM, 24-hour)
- end_time (optional, format: HH:MM)
- location (venue or address)

If any field is missing or unclear, use an empty string (""). DO NOT make up values.

Output must be JSON only - no markdown, no bullet points, no text, no formatting, no explanation.

Example:
{
  "title": "Music Night",
  "date": "2025-01-06",
  "start_time": "18:00",
  "end_time": "",
  "location": "Goodsound Club, 132 Main St, Newcity"
}`
