package jsondoc

// SampleJSON is the built-in demonstration document. It exercises nested
// objects, arrays of scalars and arrays of objects.
const SampleJSON = `{
  "user": {
    "name": "Alice",
    "age": 30,
    "address": { "city": "Paris", "zip": "75001" },
    "hobbies": ["reading", "yoga"],
    "active": true,
    "scores": [
      { "subject": "math", "grade": 95 },
      { "subject": "science", "grade": 88 }
    ]
  },
  "items": [
    { "id": 1, "name": "Book" },
    { "id": 2, "name": "Pen" }
  ]
}`

// Sample returns a freshly decoded copy of [SampleJSON].
func Sample() *Value {
	v, err := Parse([]byte(SampleJSON))
	if err != nil {
		panic("jsondoc: invalid sample document: " + err.Error())
	}
	return v
}
