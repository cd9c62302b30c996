package catalog

// DefaultProjects is the built-in catalog served when no data source is
// configured.
var DefaultProjects = []Project{
	{
		ID:          "me",
		Ring:        0,
		Angle:       0,
		Title:       "Me",
		Image:       "https://placehold.co/300x300/161b22/ffffff?text=Styloxis",
		Description: "Curious and passionate, I love exploring every aspect of coding. No matter the challenge, I always finish what I start.",
		Tags:        []string{"profile"},
	},
	{
		ID:          "p1",
		Ring:        1,
		Angle:       0,
		Title:       "MMO",
		Image:       "https://placehold.co/300x300/161b22/ffffff?text=MMO",
		Description: "A turn-based tactical MMO, developed in C# for the server and Unity for the client.",
		Tags:        []string{"Game"},
		URL:         "/game/mmo/index.html",
	},
	{
		ID:          "p2",
		Ring:        1,
		Angle:       60,
		Title:       "Undead zone",
		Image:       "https://placehold.co/300x300/222a33/ffffff?text=UZ",
		Description: "A game created years ago, which helped me learn from my mistakes, a source of motivation for my growth.",
		Tags:        []string{"Game", "Old"},
		URL:         "https://store.steampowered.com/app/2329930/Undead_zone/",
	},
	{
		ID:          "p3",
		Ring:        1,
		Angle:       120,
		Title:       "CoD zombie VR",
		Image:       "https://placehold.co/300x300/192028/ffffff?text=VR",
		Description: "A mod for a VR game on Unreal Engine, where I completely remade the map of a cult classic and its features. Over 300K downloads before an update to the original game made it obsolete.",
		Tags:        []string{"Mods"},
		URL:         "https://mod.io/g/contractors/m/codzfive#description",
	},
	{
		ID:          "p4",
		Ring:        1,
		Angle:       180,
		Title:       "Poker AI",
		Image:       "https://placehold.co/300x300/303e4b/ffffff?text=AI",
		Description: "An AI that plays poker in an existing game: card detection with YOLO, data analysis in Python, and decision-making with GPT.",
		Tags:        []string{"Fun", "AI"},
	},
	{
		ID:          "p5",
		Ring:        1,
		Angle:       240,
		Title:       "Wordpress",
		Image:       "https://placehold.co/300x300/1f262e/ffffff?text=WP",
		Description: "Creation of a complex theme with Three.js and a plugin to manage the theme and its database, for simple and efficient management.",
		Tags:        []string{"Pro"},
	},
	{
		ID:          "p6",
		Ring:        1,
		Angle:       300,
		Title:       "Android/iOS App",
		Image:       "https://placehold.co/300x300/25313b/ffffff?text=MOBILE",
		Description: "Creation and publication of various mobile apps: data list management, QR scanning, photo capture and sharing.",
		Tags:        []string{"Pro"},
	},
}

// Default returns the built-in catalog.
func Default() *Catalog { return MustNew(DefaultProjects) }
