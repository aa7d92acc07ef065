package mcpserver

// RecipeFormatContract describes the canonical YAML recipe format that
// LLM consumers should follow when authoring recipe files for the corpus.
const RecipeFormatContract = `# Larder Recipe Format Contract

Every recipe file stored in a Larder corpus MUST follow this structure.

## Structure

` + "```" + `yaml
id: roasted-garlic-aioli          # REQUIRED – unique across the corpus
title: Roasted Garlic Aioli       # REQUIRED – used for reference matching
visibility:
  public: true                    # OPTIONAL – defaults to false
  enterprise: false               # OPTIONAL – defaults to false
ingredients:
  - quantity: 2 heads
    item: garlic
  - quantity: 1 cup
    item: PTN Homemade Mayonnaise # reference to another recipe
  - text: salt to taste           # free-form line without a quantity split
` + "```" + `

## Rules

1. **File extension** is ` + "`" + `.yaml` + "`" + ` or ` + "`" + `.yml` + "`" + `, UTF-8 encoded.
2. **` + "`" + `id` + "`" + ` and ` + "`" + `title` + "`" + ` are required.** When ` + "`" + `id` + "`" + ` is omitted the file
   name stem is used, but an explicit id is strongly preferred.
3. **References** to other recipes are written inline in an ingredient's
   ` + "`" + `item` + "`" + ` or ` + "`" + `text` + "`" + ` field: the marker word ` + "`" + `PTN` + "`" + ` (any letter case),
   whitespace, then the referenced recipe's title. Everything after the
   marker up to the end of the field is the reference label.
4. **Reference labels match by title**, not by id. Use the target recipe's
   title verbatim for a direct link; partial titles resolve fuzzily and may
   only produce a weak suggestion.
5. The marker must stand on a word boundary: ` + "`" + `2 PTN Pie Crust` + "`" + ` is a
   reference, ` + "`" + `captnemo sauce` + "`" + ` is not.
6. **Visibility flags** are booleans per audience (` + "`" + `public` + "`" + `,
   ` + "`" + `enterprise` + "`" + `). Omitted flags are false. Visibility propagates along
   references, so flipping one recipe may flip its whole connected group.

## Example

` + "```" + `yaml
id: weeknight-lasagna
title: Weeknight Lasagna
visibility:
  enterprise: true
ingredients:
  - quantity: 500 g
    item: lasagna sheets
  - quantity: 3 cups
    item: PTN Quick Marinara Sauce
  - quantity: 2 cups
    item: ptn Béchamel
  - text: grated parmesan for the top
` + "```" + `
`
