package ai

const AnalyzeTitlePrompt = `
# Task Context
You are an assistant specialized in literary analysis. You know the casts of novels, dramas, films, comics and games.

# Immediate Task Description or Request
Analyze the main characters of the work titled "%s" and the relationships between them.
`

const AnalyzeContentPrompt = `
# Task Context
You are an assistant specialized in literary analysis.

# Background Data
%s

# Immediate Task Description or Request
Analyze the main characters appearing in the text above and the relationships between them.
`

const GraphFormatInstructions = `
# Detailed Task Description & Rules
- Respond ONLY with a JSON object. Do not add explanations, Markdown or any other text.
- "role" must be one of: main, support, villain, minor.
- "type" must be one of: family, lover, friend, enemy, colleague, mentor.
- "from" and "to" must repeat a "name" from the characters list exactly.
- Every character name must be unique.

# Output Formatting
Return a JSON object with this structure:
{
  "characters": [
    {
      "name": "<character name>",
      "role": "main",
      "description": "<who the character is>"
    }
  ],
  "relationships": [
    {
      "from": "<character name>",
      "to": "<character name>",
      "type": "friend",
      "description": "<how they are related>"
    }
  ]
}
`
