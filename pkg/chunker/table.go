package chunker

// gearTable drives the Gearhash rolling hash: one 64-bit constant per input
// byte value. The table is a protocol constant shared with the reference
// implementation; boundaries are a pure function of it, so any change breaks
// chunk-level deduplication everywhere.
var gearTable = [256]uint64{
	0xb088d3a9e840f559, 0x5652c7f739ed20d6, 0x45b28969898972ab, 0x6b0a89d5b68ec777,
	0x368f573e8b7a31b7, 0x1dc636dce936d94b, 0x207a4c4e5554d5b6, 0xa474b34628239acb,
	0x3b06a83e1ca3b912, 0x90e78d6c2f02baf7, 0x5c44e18bb73c94e4, 0xb77d1becfcc925fd,
	0xc416c11f4aa7121a, 0xa30abf078cd23a41, 0xbd5024d4f0ee836e, 0xe085a3c1f1cf0f2c,
	0x785693bf65a4289a, 0xf9f7156b8554e183, 0x2e97d505d8becbba, 0xb271d100a4ef2bb2,
	0x21919c210b1e9473, 0xc6629f823a7022fe, 0x60dca31f941dc5ef, 0xe4a38f4ad835b80c,
	0x0e13976abb32b943, 0xb93327a28a71049c, 0xa4d298f33a43a6e1, 0xa255baca55a16435,
	0x9817895aeb0c19fb, 0x21d937bf0b0baee1, 0x584037d8e35c7e3d, 0xb0abe5911fc5c339,
	0xe8db497bc04a3eae, 0x4bb9ab25f4756ced, 0x17d123f539ba7412, 0xd7e3e584a116b306,
	0xd5d9004e6eb8733e, 0xcbb1f55bb659957e, 0x4ba62acec9171318, 0x59de3be6e27fe020,
	0xfca6c27d033dd484, 0x51c1cbbb4bf4a13d, 0x7e2ad928525efa3a, 0x3bc8a269ed106b90,
	0x69e5e68a55ecbe60, 0x8900350dc168ae1f, 0x3cc24093f684664b, 0xfc3d9f100ecd045f,
	0x24d86940743b1262, 0x636a99137799ab27, 0x528ff9d6e727d54b, 0xce00b18434ca898d,
	0x1e8b64b58d140e74, 0x17adfe425647960f, 0x13481bdd260fc535, 0x6784467d5b30b0e2,
	0x08b0a821f0e9e39d, 0x392f3087a49663de, 0x0ed651ada3608c47, 0x66caceeb1f0cfc07,
	0x384126026f00726f, 0xee1205c3d9932b0e, 0xe417d1123e17ec0f, 0xcfd1fcd77b7b8212,
	0xc4c4c32f41b6790c, 0x6798b3d6f67e8a80, 0xd9b0dbe8ff107d20, 0x3018d76ca41f7979,
	0xbac5070709baaab5, 0x1b4aecb81006c385, 0x2a393519391a621b, 0x856c1578c64d66f1,
	0x105d347532b19b80, 0x1bbf54e341177ef8, 0x88bc4a6ee7c67a2b, 0x89693e591c9ade17,
	0x9512e9c288eef864, 0x9d12b2385e371a83, 0xbb7bde691f2c018f, 0x1fd1d3a50dc43507,
	0x5b5678fb94e75d53, 0x1ebf745a77ec469a, 0xb4cd3959f40c33c8, 0xc6b61939aa5e5b4b,
	0x21144622f567365d, 0xf8b6cdce00957f15, 0x3319d72a35093b92, 0xee009cc1264983e1,
	0xb67a673ac73376b9, 0xf3161549926d7ad7, 0xb43c4aa2b255bfc4, 0x6b5aac09d402a517,
	0xf81fa4207a638d28, 0x9a0383995740a297, 0x79bc0fa0d16a0c6e, 0x9fb7b1e4fc9889b4,
	0x110210a4b74fd2cd, 0x1464ef4445a08647, 0x3005dc21f853d266, 0x5d241ed62088301b,
	0x71473da0bf945e32, 0xd753f7eb54c959a9, 0xdf9af8acdcca0984, 0x8ef784b0d24fbb75,
	0x9702bfe1929f2c64, 0x6297b9823f83202b, 0xe3f6599469fcfa9d, 0x0e5dd5f8e1dc7567,
	0x13d5bbc7c1fb350c, 0x485d0e8659680313, 0x39ef5f5de8f7cf3e, 0xe971b21e46e3d7e4,
	0x46abe812d98733d3, 0x5e62a0ffaf4571f7, 0x76af43e93cc84709, 0xb74a82c1eda3ed4a,
	0x2d3c377f01ba4ac1, 0x12c1d2b7808b8f48, 0x80fdae31f01b9ee9, 0x4b4a1e3f46e29afd,
	0xb13d6828853989f8, 0xe298dd8d26e59069, 0x841bfb90e40fb550, 0x69b93c360f4b3cb7,
	0x757e1fd336a568d0, 0x933af1d52d0ea429, 0xdff65c0a8cea8246, 0x54aab5cd33565ccc,
	0x16756937cdb3a188, 0x74be53a280f49c95, 0xbd8fd1a4a0915c02, 0xe43f6e06e6659822,
	0xfd03efe49c0ac851, 0xe069d2c263d82f63, 0xbf999d6acd5e6cb8, 0x430380feaeb1f985,
	0xa9d017b00df0a7d0, 0x56efab0ad20562fb, 0x19f1c9d717cbcaf8, 0x1fb542506a805a68,
	0x1ad65cd0b04d2e94, 0xa748cc62b4321632, 0x40e6f52fc3fd5a6c, 0x19c5d941c1bc0203,
	0x80d6a63332baff3c, 0xb40c52a7328f4010, 0x7e4b848d1c782236, 0x4b0872c20d4ec73c,
	0x1e41a356ffca3178, 0x99eff47eddc4127b, 0xadce221d64da24de, 0x9eb210dbe179e5ed,
	0x35f92740f38bd3c5, 0x614d2a2ad92d8c79, 0xefb8d0a0b33cee21, 0x4d9be571f2b4817d,
	0xf26d5dab0907ab8e, 0x826edd1f47247bbc, 0x2cf14e4b7b91d22b, 0x69b3aeaa86abcf38,
	0x5ac4186e6e45c4d0, 0x2151850879d47ae9, 0x61dc6d93f6100d69, 0xbcf854dc6be71ea3,
	0x9bc04099302f5bc2, 0x0db975ce0ed87dd9, 0xdd2ca2d8d3bd1abf, 0x0518e1c8852ff63b,
	0x078eb433454e8584, 0xdff3f6690761e54e, 0x7b9a42dc2e75e147, 0x5cacf6631f922699,
	0xb35ec47cbc56a1eb, 0xa3b95ffefa41802c, 0x6c25a51dbb4f7bbb, 0x0752fe3f1c9fef07,
	0x3d942bdb0d57e453, 0x655d740a22084421, 0xe619a8ca2daef0a7, 0x58e5d8d2f35f1700,
	0x7de603b184cdc527, 0xa5c81d5bb2725971, 0xb50a3affaf3063df, 0xf5d223cc60088bb6,
	0x00fcfa7918830b0a, 0x84357d9201742c17, 0xe289a8d8d7308ec1, 0xdfa4d30182004339,
	0x08738f62543751bc, 0xff966161e14a89a0, 0x0060054aa2bff0b4, 0x4ededd55743a354e,
	0x2a6bed9547d08ade, 0x49dc3aae44591616, 0x0ca1d38755a5bc35, 0xa5fec3b74ced822e,
	0xce523f48fb1f4b61, 0x91b0e67b98466261, 0x0d05dde37d54b457, 0xe3b46ea2e84e4774,
	0x8b09ca6e37d55f00, 0xfb77bbfc637e36f5, 0xdcf46c54841a2ee5, 0x2b117a3e027a49d2,
	0x38142a458c176de3, 0xe533c171a82d4df0, 0x7791fbab5b55dd0a, 0x220074b4632e810f,
	0x8d50d7d19d29d1d7, 0x2a71d99ca1fe7b9d, 0x3c3fd80fadd8076b, 0xa21a97890a641547,
	0x5a1d8610a4519cba, 0x3e119abea9fb6fbd, 0xfa3d5a87915652ed, 0xf0bb86ac8adbb96e,
	0xe54d7877b1788d72, 0xbd9245da5026272b, 0x44e91e52980943a7, 0xc81ed4a2687fb823,
	0x0ff9bb98ed31a39e, 0x5bc518347da65988, 0xd2374405612a068d, 0x20e3041a71264d81,
	0xd50d4fbbe7e47dda, 0x8d726b41be4c1e93, 0x05ed5d048c0b9b15, 0x2d05bb70c27cb6eb,
	0x672ca79cb8c52c02, 0x709768da7ac9eea3, 0x93651c56d1b5f74c, 0xa9419ea5afa0e85d,
	0x1b99509d84a0ac5f, 0x59a6865bcf327c3b, 0x3b8ea1e8306c7c6d, 0xe441d69ab1f39f50,
	0xec6a5944d971565a, 0xcdea0cbe51d25c4b, 0x1bdc13f7e43d5c47, 0x4a22320cfef7b631,
	0x9128be87c348d18f, 0x1e832860a73c9475, 0x6555b1908a1ba232, 0x6122beae2372d479,
	0x9c96ee307c87fcf1, 0x7b6d47c056f2b6a0, 0xf83db86dfa625eb2, 0x5f04267ebaa54424,
	0xb0161604e8bf536b, 0x1a88204256880811, 0x102b915033e3f75c, 0x4104eb7fc3d11e64,
	0xee8289420e64173c, 0xe16b540e02767dfb, 0xce9af25067752f0a, 0xe62c1d4a9d6d352b,
}
