// defaults.go - Curated default content
//
// To add a practice model: drop an isometric preview under
// static/projects/practice/<name>.png, optionally the CAD file under
// static/cad-files/, and put the Autodesk viewer short link in "viewer".
package main

// Designs ship empty: every published design is admin-created.
var defaultDesigns = []Record{}

var defaultPracticeModels = []Record{
	{
		"id":       "v-block-assembly",
		"name":     "V-Block Assembly (Practice)",
		"image":    "/projects/practice/v-block-assembly.png",
		"viewer":   "https://autode.sk/4qfPYu8",
		"download": "/cad-files/v-block-assembly.sldasm",
		"order":    0,
	},
	{
		"id":     "flat-sprocket",
		"name":   "Flat Sprocket (Practice)",
		"image":  "/projects/practice/flat-sprocket.png",
		"viewer": "https://autode.sk/3MPor4i",
		"order":  1,
	},
}

var defaultProfile = Record{
	"id":           profileID,
	"profilePhoto": "",
	"name":         "SHUBHAM KANGUNE",
	"title":        "Mechanical Design Engineer",
	"tagline":      "Transforming complex engineering challenges into innovative mechanical solutions",
	"bio": "Passionate Mechanical Design Engineer with expertise in CAD/CAM, product development, " +
		"and manufacturing processes. I specialize in creating efficient, cost-effective designs " +
		"that bridge the gap between concept and production.",
	"email":    "shubhamkangune@gmail.com",
	"phone":    "+91 9356012407",
	"location": "Pune, India",
	"linkedin": "https://www.linkedin.com/in/shubham-kangune-876553221",
}

func designsConfig() collectionConfig {
	return collectionConfig{
		name:     "designs",
		prefix:   "design",
		defaults: defaultDesigns,
	}
}

func practiceModelsConfig() collectionConfig {
	return collectionConfig{
		name:     "practiceModels",
		prefix:   "practice",
		ordered:  true,
		defaults: defaultPracticeModels,
		fieldDefaults: Record{
			"tools": []any{"SolidWorks"},
		},
	}
}
