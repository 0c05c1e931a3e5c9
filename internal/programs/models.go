package programs

import "time"

// Mode identifies which editor authored a program.
type Mode string

const (
	ModePython Mode = "python"
	ModeBlocks Mode = "blocks"
)

// maxNameLength bounds program names stored in the database.
const maxNameLength = 100

// Program is one saved editor document. Blockly programs keep both the XML
// workspace and the Python it generated so either editor can reopen them.
type Program struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PythonCode string    `json:"python_code"`
	BlocklyXML string    `json:"blockly_xml"`
	Mode       Mode      `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Draft carries the caller-supplied fields for a create or update.
type Draft struct {
	Name       string `json:"name"`
	PythonCode string `json:"python_code"`
	BlocklyXML string `json:"blockly_xml"`
	Mode       Mode   `json:"mode"`
}

func validMode(mode Mode) bool {
	return mode == ModePython || mode == ModeBlocks
}
