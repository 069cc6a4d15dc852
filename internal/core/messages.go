package core

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// User-facing texts. These are matched literally by downstream tooling.
const (
	MsgUnauthorized     = "Du darfst diesen Befehl nicht Ausführen!"
	MsgUnknownCommand   = "Unbekannter Befehl %s!"
	MsgInvalidParameter = "Parameter \"%s\" muss eine Zahl sein!"
	MsgListHTTPError    = "HTTP Error when retrieving list of images: %d"
	MsgListError        = "Error when retrieving list of images: %v"
	MsgFolderNotFound   = "Ordner für Jahr %d %s %d nicht gefunden!"
	MsgAllSent          = "Alle Bilder bereits gesendet!"
	MsgHeaderMonth      = "*Bilder des Monats %s %d*"
	MsgHeaderWeek       = "*Bilder der Woche %d %d*"
	MsgSupplement       = " (Ergänzung)"
	MsgMetadataDecode   = "Error while processing %s decoding JSON message: %s"
	MsgImageDownload    = "Error while downloading image from %s. Status: %d"
	MsgSendError        = "Error sending message: %v"
	MsgCacheLoad        = "Error while loading cache %s: %v"
	MsgCachePersist     = "Error while saving cache %s: %v"
	MsgSummary          = "Befehl fertig. Es wurden %d/%d Bilder geposted."
	MsgNoAuthor         = "Kein Autor angegeben"
)

var printer = message.NewPrinter(language.German)

// HeaderMessage returns the content channel header for a period
func HeaderMessage(p Period, supplement bool) string {
	var msg string
	if p.Type == RequestTypeMonth {
		msg = fmt.Sprintf(MsgHeaderMonth, MonthName(p.Number), p.Year)
	} else {
		msg = fmt.Sprintf(MsgHeaderWeek, p.Number, p.Year)
	}
	if supplement {
		msg += MsgSupplement
	}
	return msg
}

// SummaryMessage returns the admin summary for a run
func SummaryMessage(posted, total int) string {
	return printer.Sprintf(MsgSummary, posted, total)
}

// FolderNotFoundMessage returns the explanation sent when a period folder is missing
func FolderNotFoundMessage(p Period) string {
	return fmt.Sprintf(MsgFolderNotFound, p.Year, p.Type, p.Number)
}
