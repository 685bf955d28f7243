package constants

const (
	RedLine   = "Luas Red Line"
	GreenLine = "Luas Green Line"
)

type Stop struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Line struct {
	Name  string `json:"name"`
	Stops []Stop `json:"stops"`
}

// GetLines returns the Luas network, lines and stops in their travel order.
func GetLines() []Line {
	var lines []Line
	lines = append(lines, Line{Name: RedLine, Stops: []Stop{
		{Code: "TPT", Name: "The Point"},
		{Code: "SDK", Name: "Spencer Dock"},
		{Code: "MYS", Name: "Mayor Square - NCI"},
		{Code: "GDK", Name: "George's Dock"},
		{Code: "CON", Name: "Connolly"},
		{Code: "BUS", Name: "Busáras"},
		{Code: "ABB", Name: "Abbey Street"},
		{Code: "JER", Name: "Jervis"},
		{Code: "FOU", Name: "Four Courts"},
		{Code: "SMI", Name: "Smithfield"},
		{Code: "MUS", Name: "Museum"},
		{Code: "HEU", Name: "Heuston"},
		{Code: "JAM", Name: "James's"},
		{Code: "FAT", Name: "Fatima"},
		{Code: "RIA", Name: "Rialto"},
		{Code: "SUI", Name: "Suir Road"},
		{Code: "GOL", Name: "Goldenbridge"},
		{Code: "DRI", Name: "Drimnagh"},
		{Code: "BLA", Name: "Blackhorse"},
		{Code: "BLU", Name: "Bluebell"},
		{Code: "KYL", Name: "Kylemore"},
		{Code: "RED", Name: "Red Cow"},
		{Code: "KIN", Name: "Kingswood"},
		{Code: "BEL", Name: "Belgard"},
		{Code: "COO", Name: "Cookstown"},
		{Code: "HOS", Name: "Hospital"},
		{Code: "TAL", Name: "Tallaght"},
		{Code: "FET", Name: "Fettercairn"},
		{Code: "CVN", Name: "Cheeverstown"},
		{Code: "CIT", Name: "Citywest Campus"},
		{Code: "FOR", Name: "Fortunestown"},
		{Code: "SAG", Name: "Saggart"},
	}})
	lines = append(lines, Line{Name: GreenLine, Stops: []Stop{
		{Code: "BRO", Name: "Broombridge"},
		{Code: "CAB", Name: "Cabra"},
		{Code: "PHI", Name: "Phibsborough"},
		{Code: "GRA", Name: "Grangegorman"},
		{Code: "BRD", Name: "Broadstone - University"},
		{Code: "DOM", Name: "Dominick"},
		{Code: "PAR", Name: "Parnell"},
		{Code: "OUP", Name: "O'Connell - Upper"},
		{Code: "OGP", Name: "O'Connell - GPO"},
		{Code: "MAR", Name: "Marlborough"},
		{Code: "WES", Name: "Westmoreland"},
		{Code: "TRY", Name: "Trinity"},
		{Code: "DAW", Name: "Dawson"},
		{Code: "STS", Name: "St. Stephen's Green"},
		{Code: "HAR", Name: "Harcourt"},
		{Code: "CHA", Name: "Charlemont"},
		{Code: "RAN", Name: "Ranelagh"},
		{Code: "BEE", Name: "Beechwood"},
		{Code: "COW", Name: "Cowper"},
		{Code: "MIL", Name: "Milltown"},
		{Code: "WIN", Name: "Windy Arbour"},
		{Code: "DUN", Name: "Dundrum"},
		{Code: "BAL", Name: "Balally"},
		{Code: "KIL", Name: "Kilmacud"},
		{Code: "STI", Name: "Stillorgan"},
		{Code: "SAN", Name: "Sandyford"},
		{Code: "CPK", Name: "Central Park"},
		{Code: "GLE", Name: "Glencairn"},
		{Code: "GAL", Name: "The Gallops"},
		{Code: "LEO", Name: "Leopardstown Valley"},
		{Code: "BAW", Name: "Ballyogan Wood"},
		{Code: "CCK", Name: "Carrickmines"},
		{Code: "LAU", Name: "Laughanstown"},
		{Code: "CHE", Name: "Cherrywood"},
		{Code: "BRI", Name: "Brides Glen"},
	}})

	return lines
}
