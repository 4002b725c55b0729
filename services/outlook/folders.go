package outlook

import "strings"

var wellKnownFolders = map[string]string{
	"INBOX": "inbox",
	"SENT":  "sentitems",
	"DRAFT": "drafts",
	"TRASH": "deleteditems",
}

// FolderFor maps a canonical label to a Graph folder id. Unknown labels are
// taken to be folder ids already.
func FolderFor(label string) string {
	if folder, ok := wellKnownFolders[strings.ToUpper(label)]; ok {
		return folder
	}
	return label
}
