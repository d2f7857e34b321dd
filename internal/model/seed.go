package model

const placeholderImage = "https://via.placeholder.com/60"

// DefaultCategories returns the categories written on first run.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Gujrati", Image: StringPtr("https://www.nehascookbook.com/wp-content/uploads/2022/10/Shrad-thali-WS.jpg")},
		{ID: "2", Name: "Panjabi", Image: StringPtr("https://t4.ftcdn.net/jpg/03/45/64/29/360_F_345642976_fzD1FcOY69LghUbXNmyCRZPRSwRVDNlj.jpg")},
		{ID: "3", Name: "Chinese", Image: StringPtr("https://www.recipetineats.com/wp-content/uploads/2023/06/Chili-crisp-noodles_2.jpg?w=747&h=747&crop=1")},
		{ID: "4", Name: "South Indian", Image: StringPtr("https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcTinCKGPNr2g5zx4Qet43b2n3rGXhO-_ppJww&s")},
		{ID: "5", Name: "Mexican", Image: StringPtr("https://images.immediate.co.uk/production/volatile/sites/30/2022/10/Pork-carnitas-b94893e.jpg?quality=90&resize=556,505")},
		{ID: "6", Name: "Italian", Image: StringPtr("https://www.eatingwell.com/thmb/eL6SiYsG7FVKf8MYDilOqrv63gQ=/1500x0/filters:no_upscale():max_bytes(150000):strip_icc()/3837844-2d4accd800f44c6e9a41d5aad0811dbe.jpg")},
	}
}

// DefaultProducts returns the products written on first run, keyed to
// DefaultCategories by category ID.
func DefaultProducts() []Product {
	img := func() *string { return StringPtr(placeholderImage) }
	return []Product{
		{ID: "1", CategoryID: "1", Name: "Bajrano - Rotlo", Price: "50.00", Image: img()},
		{ID: "2", CategoryID: "1", Name: "Khela Khela Khaman", Price: "100.00", Image: img()},
		{ID: "3", CategoryID: "2", Name: "Cheez butter masala", Price: "150.00", Image: img()},
		{ID: "4", CategoryID: "2", Name: "Shahi Paneer", Price: "180.00", Image: img()},
		{ID: "5", CategoryID: "2", Name: "Butter Nan", Price: "40.00", Image: img()},
		{ID: "6", CategoryID: "3", Name: "Chaines Bhel", Price: "120.00", Image: img()},
		{ID: "7", CategoryID: "3", Name: "Dry Manchurian", Price: "150.00", Image: img()},
		{ID: "8", CategoryID: "4", Name: "Maisur Masala", Price: "150.00", Image: img()},
		{ID: "9", CategoryID: "4", Name: "Uttapam", Price: "120.00", Image: img()},
		{ID: "10", CategoryID: "5", Name: "Cauliflower Tacos", Price: "180.00", Image: img()},
		{ID: "11", CategoryID: "5", Name: "Vegetarian Soup", Price: "170.00", Image: img()},
	}
}
