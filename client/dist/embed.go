package clientdist

import _ "embed"

// FolioJS is the thin client. The server serves it fingerprinted under
// "/_folio/" and at "/_folio/client.js".
//
//go:embed folio.js
var FolioJS []byte
