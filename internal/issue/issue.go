// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	UnknownTargetId Id = iota + 1
	MissingDirectoryId
	UnreadableDirectoryId
	ConfigLoadFailedId
	MissingEntryHeaderId
	InvalidBoardId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal Markdown using the given glamour style
// ("dark", "light", "notty", ... or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	unknownTargetIssue = &Issue{
		id: UnknownTargetId,
		mdMsg: `
# Unknown target!

The requested target is not in the board table, so there is no board define
or pin variant to compile the runtime with.

## Things you can try:
- List the supported targets:
~~~
$ arduinogen targets
~~~

- Fix the ` + "`ARDUINO_TARGET`" + ` environment variable or the ` + "`target`" + ` field of your config.

- Declare the board yourself in ` + "`arduinogen.cue`" + `:
~~~cue
boards: [{
	target:  "avr-atmega32u4"
	define:  "ARDUINO_AVR_LEONARDO"
	variant: "leonardo"
}]
~~~`,
		extLinks: []HttpLink{"https://github.com/arduino/ArduinoCore-avr/blob/master/boards.txt"},
	}

	missingDirectoryIssue = &Issue{
		id: MissingDirectoryId,
		mdMsg: `
# Required include directory not found!

Compiling the runtime without the board variant (` + "`pins_arduino.h`" + `) or the
AVR C library headers (` + "`avr/io.h`" + `) would produce broken firmware, so the
build stops here.

## Things you can try:
- Install the Arduino AVR core and avr-libc:
~~~
$ sudo apt install arduino-core-avr avr-libc gcc-avr
~~~

- Point at a non-standard Arduino install:
~~~
$ export ARDUINO_INCLUDE_ROOT=$HOME/.arduino15/packages/arduino/hardware/avr/1.8.6
~~~

- Point at a non-standard avr-libc install:
~~~
$ export AVR_INCLUDE_DIRECTORY=/opt/avr/avr/include
~~~

An explicit ` + "`AVR_INCLUDE_DIRECTORY`" + ` is never second-guessed: if it does not
exist, the well-known locations are not searched.`,
	}

	unreadableDirectoryIssue = &Issue{
		id: UnreadableDirectoryId,
		mdMsg: `
# Directory could not be read!

A runtime or include root could not be listed.

## Things you can try:
- Check that the directory exists and you can read it:
~~~
$ ls -ld "$ARDUINO_RUNTIME_DIRECTORY"
~~~

- Run with ` + "`--verbose`" + ` to see which nested directories were skipped.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be parsed or does not match the
schema.

## Things you can try:
- Show which file is used:
~~~
$ arduinogen config path
~~~

- Regenerate a default configuration:
~~~
$ arduinogen config init --force
~~~`,
	}

	missingEntryHeaderIssue = &Issue{
		id: MissingEntryHeaderId,
		mdMsg: `
# Binding entry header not found!

A binding pass names an entry header that is not present in the runtime
directory. Bindings are never generated from a partial header set.

## Things you can try:
- List what was discovered:
~~~
$ arduinogen headers
~~~

- Adjust the ` + "`bindings`" + ` list in your config.`,
	}

	invalidBoardIssue = &Issue{
		id: InvalidBoardId,
		mdMsg: `
# Invalid board definition!

Each configured board needs a target of the form ` + "`<architecture>-<chip>`" + `,
a non-empty board define, and a single variant directory name.`,
	}

	issues = map[Id]*Issue{
		unknownTargetIssue.Id():       unknownTargetIssue,
		missingDirectoryIssue.Id():    missingDirectoryIssue,
		unreadableDirectoryIssue.Id(): unreadableDirectoryIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		missingEntryHeaderIssue.Id():  missingEntryHeaderIssue,
		invalidBoardIssue.Id():        invalidBoardIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
