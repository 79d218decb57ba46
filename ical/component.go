/*
Copyright 2025 Trident Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ical

import "strings"

// ComponentKind identifies a calendar component.
type ComponentKind int

// Component kinds. ComponentIANA and ComponentX cover components whose
// grammar is not known, named by an IANA token or an "X-" name.
const (
	ComponentEvent ComponentKind = iota
	ComponentToDo
	ComponentJournal
	ComponentFreeBusy
	ComponentTimeZone
	ComponentStandard
	ComponentDaylight
	ComponentAlarm
	ComponentIANA
	ComponentX
)

//nolint:gochecknoglobals // lookup table, never modified.
var componentNames = [...]string{
	ComponentEvent:    "VEVENT",
	ComponentToDo:     "VTODO",
	ComponentJournal:  "VJOURNAL",
	ComponentFreeBusy: "VFREEBUSY",
	ComponentTimeZone: "VTIMEZONE",
	ComponentStandard: "STANDARD",
	ComponentDaylight: "DAYLIGHT",
	ComponentAlarm:    "VALARM",
	ComponentIANA:     "",
	ComponentX:        "",
}

// Name returns the keyword used in BEGIN and END lines. It is empty for
// ComponentIANA and ComponentX, whose names live on the component itself.
func (k ComponentKind) Name() string {
	if k < 0 || int(k) >= len(componentNames) {
		return ""
	}
	return componentNames[k]
}

// String implements fmt.Stringer.
func (k ComponentKind) String() string {
	switch k {
	case ComponentIANA:
		return "IANA"
	case ComponentX:
		return "X"
	default:
		return k.Name()
	}
}

// ComponentKindFromName maps a BEGIN/END name to its kind, ignoring case.
func ComponentKindFromName(name string) ComponentKind {
	for k := ComponentEvent; k < ComponentIANA; k++ {
		if strings.EqualFold(componentNames[k], name) {
			return k
		}
	}
	if IsXName(name) {
		return ComponentX
	}
	return ComponentIANA
}
