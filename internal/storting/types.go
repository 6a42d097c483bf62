package storting

// Vote direction values as they appear in voteringsresultat documents.
// Anything else (absent, abstention markers) is not a countable ballot.
const (
	VoteFor     = "for"
	VoteAgainst = "mot"
)

// Case represents one legislative matter ("sak") in a session
type Case struct {
	ID    string `xml:"id"`
	Title string `xml:"tittel"`
}

// VotingEvent represents one recorded vote ("votering") within a case.
// The topic is carried per event and may differ from the case's nominal topic.
type VotingEvent struct {
	ID      string `xml:"votering_id"`
	For     int    `xml:"antall_for"`
	Against int    `xml:"antall_mot"`
	Topic   string `xml:"votering_tema"`
}

// Ballot is one representative's recorded vote on one voting event
type Ballot struct {
	Vote           string         `xml:"votering"`
	Representative Representative `xml:"representant"`
}

// Representative identifies who cast a ballot and for which party
type Representative struct {
	FirstName string `xml:"fornavn"`
	LastName  string `xml:"etternavn"`
	Party     Party  `xml:"parti"`
}

// Party is the party block nested inside a representative element
type Party struct {
	ID string `xml:"id"`
}

// Document wrappers matching data.stortinget.no export shapes

type casesDocument struct {
	Cases []Case `xml:"saker_liste>sak"`
}

type votingEventsDocument struct {
	Events []VotingEvent `xml:"sak_votering_liste>sak_votering"`
}

type ballotsDocument struct {
	Ballots []Ballot `xml:"voteringsresultat_liste>representant_voteringsresultat"`
}
